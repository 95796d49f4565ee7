// Package eventbus provides a small in-process publish/subscribe bus.
// The prediction engine publishes its lifecycle events here so metrics
// collectors and tests can observe the loop without coupling to it.
package eventbus

import "sync"

// Event is any value carried on the bus.
type Event interface{}

// subBuffer is the per-subscriber channel capacity. Slow subscribers
// lose events rather than stalling the publisher.
const subBuffer = 8

// EventBus fans events out to an arbitrary number of subscribers.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the default EventBus implementation.
type Bus struct {
	mu     sync.RWMutex
	subs   map[<-chan Event]chan Event
	closed bool
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[<-chan Event]chan Event)}
}

// Publish delivers the event to every subscriber without blocking. A
// subscriber whose buffer is full misses the event.
func (b *Bus) Publish(e Event) {
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

// Subscribe registers a new subscriber and returns its channel. The
// channel is closed on Unsubscribe or when the bus closes.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = ch
	return ch
}

// Unsubscribe removes the subscriber and closes its channel. Calling it
// after Close or with an unknown channel is a no-op.
func (b *Bus) Unsubscribe(sub <-chan Event) {
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
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[<-chan Event]chan Event)
}
