package event

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus(2, 16, nil)

	var mu sync.Mutex
	got := map[string][]any{}
	bus.Subscribe(ArticlePublished, func(p any) {
		mu.Lock()
		got["a"] = append(got["a"], p)
		mu.Unlock()
	})
	bus.Subscribe(ArticlePublished, func(p any) {
		mu.Lock()
		got["b"] = append(got["b"], p)
		mu.Unlock()
	})

	assert.True(t, bus.Publish(ArticlePublished, uint(7)))
	assert.True(t, bus.Publish(TagUpdated, uint(1)))
	bus.Shutdown()

	assert.Equal(t, []any{uint(7)}, got["a"])
	assert.Equal(t, []any{uint(7)}, got["b"])
}

func TestBusRecoversHandlerPanic(t *testing.T) {
	bus := NewBus(1, 4, nil)
	var calls atomic.Int32
	bus.Subscribe(CategoryUpdated, func(any) { panic("boom") })
	bus.Subscribe(CategoryUpdated, func(any) { calls.Add(1) })

	bus.Publish(CategoryUpdated, uint(1))
	bus.Publish(CategoryUpdated, uint(2))
	bus.Shutdown()

	assert.Equal(t, int32(2), calls.Load())
}

func TestBusDropsAfterShutdown(t *testing.T) {
	bus := NewBus(1, 1, nil)
	bus.Shutdown()
	bus.Shutdown()

	assert.False(t, bus.Publish(ArticlePublished, uint(1)))
}

func TestBusDropsWhenFull(t *testing.T) {
	bus := NewBus(1, 1, nil)
	block := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	bus.Subscribe(PageUpdated, func(any) {
		once.Do(func() { close(started) })
		<-block
	})

	assert.True(t, bus.Publish(PageUpdated, 1))
	<-started
	assert.True(t, bus.Publish(PageUpdated, 2))
	assert.False(t, bus.Publish(PageUpdated, 3))

	close(block)
	bus.Shutdown()
}
