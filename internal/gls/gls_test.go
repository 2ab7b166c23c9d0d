package gls

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetGet_PerGoroutine(t *testing.T) {
	_, ok := Get()
	assert.False(t, ok)

	prev := Set("main-value")
	assert.Nil(t, prev)

	v, ok := Get()
	assert.True(t, ok)
	assert.Equal(t, "main-value", v)

	prev = Set("replaced")
	assert.Equal(t, "main-value", prev)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, ok := Get()
		assert.False(t, ok, "a fresh goroutine must not see another goroutine's value")
		Set("other-goroutine")
		v, ok := Get()
		assert.True(t, ok)
		assert.Equal(t, "other-goroutine", v)
	}()
	wg.Wait()

	v, ok = Get()
	assert.True(t, ok)
	assert.Equal(t, "replaced", v)
}

func TestSet_NilClears(t *testing.T) {
	Set("something")
	Set(nil)
	_, ok := Get()
	assert.False(t, ok)
}
