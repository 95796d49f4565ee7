package eventbus

import "sync"

// TypedBus is a type-safe variant of Bus. The simulator uses
// TypedBus[model.Sample] as an in-process pose feed when no broker is
// involved.
type TypedBus[T any] struct {
	mu     sync.RWMutex
	subs   map[<-chan T]chan T
	closed bool
}

// NewTyped creates an empty TypedBus.
func NewTyped[T any]() *TypedBus[T] {
	return &TypedBus[T]{subs: make(map[<-chan T]chan T)}
}

// Publish delivers the event to every subscriber without blocking.
func (b *TypedBus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel.
func (b *TypedBus[T]) Subscribe() <-chan T {
	ch := make(chan T, subBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = ch
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *TypedBus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[sub]
	if !ok {
		return
	}
	delete(b.subs, sub)
	if !b.closed {
		close(ch)
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *TypedBus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[<-chan T]chan T)
}
