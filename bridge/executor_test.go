package bridge

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/framebridge/event"
)

func TestExecutor_FIFOOrder(t *testing.T) {
	e := newExecutor(8, nil)
	e.start()
	defer e.stop()

	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 20; i++ {
		i := i
		e.post(event.KindRender, func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}
	// An awaited task runs after everything posted before it
	if err := e.await(event.KindResize, func() error { return nil }); err != nil {
		t.Fatalf("await failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 20 {
		t.Fatalf("Expected 20 tasks, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("Expected FIFO order, got %v", order)
		}
	}
}

func TestExecutor_PostedErrorsReported(t *testing.T) {
	reported := make(chan error, 1)
	e := newExecutor(1, func(kind event.Kind, err error) {
		if kind == event.KindRender {
			reported <- err
		}
	})
	e.start()
	defer e.stop()

	sentinel := errors.New("frame dropped")
	e.post(event.KindRender, func() error { return sentinel })

	select {
	case err := <-reported:
		if !errors.Is(err, sentinel) {
			t.Errorf("Expected wrapped sentinel, got %v", err)
		}
	case <-time.After(waitTimeout):
		t.Fatal("Posted error was not reported")
	}
}

func TestExecutor_StoppedRejectsWork(t *testing.T) {
	e := newExecutor(1, nil)
	e.start()
	e.stop()
	e.stop()
	e.wait()

	if e.post(event.KindRender, func() error { return nil }) {
		t.Error("Expected post to fail after stop")
	}
	if err := e.await(event.KindResize, func() error { return nil }); !errors.Is(err, ErrDisposed) {
		t.Errorf("Expected ErrDisposed, got %v", err)
	}
}

func TestExecutor_WaitWithoutStart(t *testing.T) {
	e := newExecutor(1, nil)
	e.stop()

	done := make(chan struct{})
	go func() {
		e.wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("wait blocked on an executor that never started")
	}
}
