package di

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// reentrantMutex is a mutex that the goroutine holding it may lock again.
// Construction callbacks (SetContainer, init hooks, CreateInstance) run on
// the constructing goroutine and may call back into the container.
type reentrantMutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock reports whether this call took the lock rather than re-entering it.
func (m *reentrantMutex) Lock() (outermost bool) {
	id := goid.Get()
	if m.owner.Load() == id {
		m.depth++
		return false
	}
	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
	return true
}

func (m *reentrantMutex) Unlock() {
	m.depth--
	if m.depth > 0 {
		return
	}
	m.owner.Store(0)
	m.mu.Unlock()
}

// heldByCaller reports whether the calling goroutine holds m.
func (m *reentrantMutex) heldByCaller() bool {
	return m.owner.Load() == goid.Get()
}
