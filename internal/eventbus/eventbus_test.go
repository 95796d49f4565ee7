package eventbus

import "testing"

func TestBusFanOut(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Publish("tick")
	for i, ch := range []<-chan Event{ch1, ch2} {
		if v := <-ch; v != "tick" {
			t.Fatalf("subscriber %d: got %v", i, v)
		}
	}
	bus.Unsubscribe(ch1)
	bus.Unsubscribe(ch2)
}

func TestBusSlowSubscriberDropsEvents(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	for i := 0; i < subBuffer+5; i++ {
		bus.Publish(i)
	}
	// Publish never blocks; only the buffered events survive.
	if n := len(ch); n != subBuffer {
		t.Fatalf("buffered events: %d, want %d", n, subBuffer)
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("channel still open after unsubscribe")
	}
	// Publishing after unsubscribe reaches nobody and must not panic.
	bus.Publish("x")
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("ch1 open after close")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("ch2 open after close")
	}
	// Subscribe after close returns a closed channel.
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("post-close subscription not closed")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
