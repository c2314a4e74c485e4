package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolRespectsLimit(t *testing.T) {
	pool := NewPool(3)
	var running, peak int32
	var seen sync.Map

	pool.Run(context.Background(), 20, func(_ context.Context, i int) {
		cur := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		seen.Store(i, true)
	})

	assert.LessOrEqual(t, peak, int32(3))
	for i := 0; i < 20; i++ {
		_, ok := seen.Load(i)
		assert.True(t, ok, "task %d did not run", i)
	}
}

func TestPoolSerial(t *testing.T) {
	pool := NewPool(0)
	assert.Equal(t, 1, pool.Jobs())

	var order []int
	pool.Run(context.Background(), 5, func(_ context.Context, i int) {
		order = append(order, i)
	})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
