package bridge

import "sync"

// The active slot is the single bridge native callbacks address; last Initialize wins
var (
	activeMu sync.Mutex
	active   *Bridge
)

// Active returns the bridge most recently initialized and not yet disposed, or nil
func Active() *Bridge {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active
}

// claim makes b the active bridge and returns the one it displaced
func claim(b *Bridge) *Bridge {
	activeMu.Lock()
	defer activeMu.Unlock()
	prev := active
	active = b
	if prev == b {
		return nil
	}
	return prev
}

// release clears the active slot if b holds it
func release(b *Bridge) bool {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active != b {
		return false
	}
	active = nil
	return true
}
