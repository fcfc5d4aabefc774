package inflight

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_TryAcquire(t *testing.T) {
	s := NewSet()

	assert.True(t, s.TryAcquire("plate:c-1"))
	assert.False(t, s.TryAcquire("plate:c-1"))
	assert.True(t, s.TryAcquire("plate:c-2"))
	assert.True(t, s.Busy("plate:c-1"))

	s.Release("plate:c-1")
	assert.False(t, s.Busy("plate:c-1"))
	assert.True(t, s.TryAcquire("plate:c-1"))
}

func TestSet_ConcurrentAcquireAdmitsOne(t *testing.T) {
	s := NewSet()
	var admitted int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryAcquire("photos:v-1") {
				atomic.AddInt32(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted)
}
