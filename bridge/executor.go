package bridge

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/framebridge/event"
)

// task is one handler delivery; done is nil for posted (fire-and-forget) tasks
type task struct {
	kind event.Kind
	fn   func() error
	done chan error
}

// executor runs handler deliveries one at a time, in submission order
// It is the bridge's single logical UI thread
type executor struct {
	queue     chan task
	stopCh    chan struct{}
	doneCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	mu        sync.Mutex

	// onError receives failures of posted tasks, which have no awaiting caller
	onError func(kind event.Kind, err error)
}

func newExecutor(queueSize int, onError func(event.Kind, error)) *executor {
	return &executor{
		queue:   make(chan task, queueSize),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		onError: onError,
	}
}

// start launches the delivery goroutine once
func (e *executor) start() {
	e.startOnce.Do(func() {
		e.mu.Lock()
		e.started = true
		e.mu.Unlock()
		go e.loop()
	})
}

// stop halts delivery after the task in progress; queued tasks are dropped
// Safe to call from inside a handler and more than once
func (e *executor) stop() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
	})
}

// wait blocks until the delivery goroutine exits, returns at once if it never started
func (e *executor) wait() {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if started {
		<-e.doneCh
	}
}

func (e *executor) loop() {
	defer close(e.doneCh)

	for {
		select {
		case <-e.stopCh:
			return
		case t := <-e.queue:
			// Stop wins over a task that raced it into the queue
			select {
			case <-e.stopCh:
				if t.done != nil {
					t.done <- ErrDisposed
				}
				return
			default:
			}

			err := e.run(t)
			if t.done != nil {
				t.done <- err
			} else if err != nil && e.onError != nil {
				e.onError(t.kind, err)
			}
		}
	}
}

// run invokes one task, converting a panic into a HandlerError
func (e *executor) run(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerError{Kind: t.kind, Panic: r, Stack: debug.Stack()}
		}
	}()
	if err := t.fn(); err != nil {
		return fmt.Errorf("%s handler: %w", t.kind, err)
	}
	return nil
}

// post queues fn without waiting for it, returns false once stopped
func (e *executor) post(kind event.Kind, fn func() error) bool {
	select {
	case <-e.stopCh:
		return false
	default:
	}

	select {
	case <-e.stopCh:
		return false
	case e.queue <- task{kind: kind, fn: fn}:
		return true
	}
}

// await queues fn and blocks until it has run, ErrDisposed once stopped
func (e *executor) await(kind event.Kind, fn func() error) error {
	select {
	case <-e.stopCh:
		return ErrDisposed
	default:
	}

	done := make(chan error, 1)
	select {
	case <-e.stopCh:
		return ErrDisposed
	case e.queue <- task{kind: kind, fn: fn, done: done}:
	}

	select {
	case err := <-done:
		return err
	case <-e.stopCh:
		// The task may still have completed before stop was observed
		select {
		case err := <-done:
			return err
		default:
			return ErrDisposed
		}
	}
}
