package event

import (
	"sync"

	"go.uber.org/zap"
)

// Topic 事件类型
type Topic string

const (
	ArticlePublished Topic = "article.published"
	CategoryUpdated  Topic = "category.updated"
	TagUpdated       Topic = "tag.updated"
	PageUpdated      Topic = "page.updated"
)

// Handler 事件处理器
type Handler func(payload any)

// Event 通道中传递的事件
type Event struct {
	Topic   Topic
	Payload any
}

// 默认Worker数量与通道缓冲
const (
	DefaultWorkerCount = 4
	DefaultChannelSize = 1024
)

// Bus 基于固定Worker池的异步事件总线
type Bus struct {
	mu        sync.RWMutex
	handlers  map[Topic][]Handler
	eventChan chan Event
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    chan struct{}
	logger    *zap.SugaredLogger
}

// NewBus 创建并启动事件总线
func NewBus(workers, buffer int, logger *zap.SugaredLogger) *Bus {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	if buffer <= 0 {
		buffer = DefaultChannelSize
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	b := &Bus{
		handlers:  make(map[Topic][]Handler),
		eventChan: make(chan Event, buffer),
		closed:    make(chan struct{}),
		logger:    logger,
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go b.worker(i + 1)
	}
	return b
}

func (b *Bus) worker(id int) {
	defer b.wg.Done()
	b.logger.Debugf("事件Worker %d 已启动", id)

	for event := range b.eventChan {
		b.mu.RLock()
		handlers := b.handlers[event.Topic]
		b.mu.RUnlock()
		for _, handler := range handlers {
			b.dispatch(event, handler)
		}
	}
	b.logger.Debugf("事件Worker %d 已停止", id)
}

// dispatch 单个处理器异常不影响同一事件的其他处理器
func (b *Bus) dispatch(event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorw("事件处理异常", "topic", event.Topic, "panic", r)
		}
	}()
	handler(event.Payload)
}

// Subscribe 订阅事件
func (b *Bus) Subscribe(topic Topic, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish 非阻塞发布，通道已满或总线已关闭时丢弃事件并返回 false
func (b *Bus) Publish(topic Topic, payload any) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.closed:
		b.logger.Warnw("事件总线已关闭，丢弃事件", "topic", topic)
		return false
	default:
	}

	select {
	case b.eventChan <- Event{Topic: topic, Payload: payload}:
		return true
	default:
		b.logger.Warnw("事件通道已满，丢弃事件", "topic", topic)
		return false
	}
}

// Shutdown 停止接收新事件，等待已入队事件处理完毕
func (b *Bus) Shutdown() {
	b.closeOnce.Do(func() {
		b.logger.Info("事件总线正在关闭")
		b.mu.Lock()
		close(b.closed)
		close(b.eventChan)
		b.mu.Unlock()
		b.wg.Wait()
		b.logger.Info("事件总线已关闭")
	})
}
