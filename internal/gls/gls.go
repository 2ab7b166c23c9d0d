// Package gls gives each goroutine a single associated value, used by the
// runtime to answer "what queue is this operation executing on" without
// threading a context through every callable. Go has no native
// thread-local storage; goroutines are identified by parsing the id out of
// a small runtime.Stack dump, the same trick most goroutine-local-storage
// shims use.
package gls

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

var (
	mu     sync.RWMutex
	values = make(map[uint64]any)
)

// Set associates v with the calling goroutine, returning whatever value was
// previously associated with it (nil if none).
func Set(v any) (previous any) {
	id := goroutineID()
	mu.Lock()
	previous = values[id]
	if v == nil {
		delete(values, id)
	} else {
		values[id] = v
	}
	mu.Unlock()
	return previous
}

// Get returns the value associated with the calling goroutine, if any.
func Get() (any, bool) {
	id := goroutineID()
	mu.RLock()
	v, ok := values[id]
	mu.RUnlock()
	return v, ok
}

func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		// unparsable stack header should never happen; fall back to a
		// constant so callers degrade to a single shared slot rather
		// than panicking.
		return 0
	}
	return id
}
