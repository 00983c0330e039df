package spatial

import (
	"sync"
	"sync/atomic"
)

// Lazy is a write-once cell holding an Index. The first call to Get builds
// the index; every other caller, concurrent or later, observes the same
// index. The zero value is an empty cell. A Lazy must not be copied after
// first use; share it by pointer.
type Lazy struct {
	once sync.Once
	ptr  atomic.Pointer[Index]
}

// Get returns the index, calling build to create it on first use.
func (l *Lazy) Get(build func() *Index) *Index {
	if x := l.ptr.Load(); x != nil {
		return x
	}
	l.once.Do(func() {
		l.ptr.Store(build())
	})
	return l.ptr.Load()
}

// Initialized reports whether the index has been built.
func (l *Lazy) Initialized() bool {
	return l.ptr.Load() != nil
}
