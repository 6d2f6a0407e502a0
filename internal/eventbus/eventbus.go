package eventbus

import (
	"reflect"
	"sync"
)

// Handler receives a published event.
type Handler func(event any)

// EventBus provides in-process pub/sub keyed by event type.
type EventBus struct {
	handlers map[reflect.Type][]Handler
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// New creates a new EventBus.
func New() *EventBus {
	return &EventBus{
		handlers: make(map[reflect.Type][]Handler),
	}
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](e *EventBus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[t] = append(e.handlers[t], func(event any) {
		if v, ok := event.(T); ok {
			fn(v)
		}
	})
}

// Publish delivers event to every subscriber of its type on separate goroutines.
func (e *EventBus) Publish(event any) {
	for _, h := range e.lookup(event) {
		e.wg.Add(1)
		go func(h Handler) {
			defer e.wg.Done()
			h(event)
		}(h)
	}
}

// PublishSync delivers event to every subscriber before returning.
func (e *EventBus) PublishSync(event any) {
	for _, h := range e.lookup(event) {
		h(event)
	}
}

// Wait blocks until all asynchronously published events have been handled.
func (e *EventBus) Wait() {
	e.wg.Wait()
}

// SubscriberCount returns the number of subscribers for the type of event.
func (e *EventBus) SubscriberCount(event any) int {
	return len(e.lookup(event))
}

func (e *EventBus) lookup(event any) []Handler {
	if event == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	hs := e.handlers[reflect.TypeOf(event)]
	out := make([]Handler, len(hs))
	copy(out, hs)
	return out
}
