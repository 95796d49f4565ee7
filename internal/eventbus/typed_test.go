package eventbus

import "testing"

func TestTypedBusFanOut(t *testing.T) {
	bus := NewTyped[string]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Publish("pose")
	for i, ch := range []<-chan string{ch1, ch2} {
		if v := <-ch; v != "pose" {
			t.Fatalf("subscriber %d: got %q", i, v)
		}
	}
	bus.Unsubscribe(ch1)
	bus.Unsubscribe(ch2)
}

func TestTypedBusNonBlocking(t *testing.T) {
	bus := NewTyped[int]()
	ch := bus.Subscribe()
	for i := 0; i < subBuffer+3; i++ {
		bus.Publish(i)
	}
	if n := len(ch); n != subBuffer {
		t.Fatalf("buffered events: %d, want %d", n, subBuffer)
	}
	// The oldest buffered event is the first published.
	if v := <-ch; v != 0 {
		t.Fatalf("first event: %d", v)
	}
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("ch1 open after close")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("ch2 open after close")
	}
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
