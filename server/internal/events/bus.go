package events

import (
	"sync/atomic"

	"github.com/asynkron/protoactor-go/eventstream"
)

// DefaultBufferSize is the per-subscriber event buffer capacity.
const DefaultBufferSize = 1024

// EventBus is a best-effort publish/subscribe channel for loosely coupled
// notifications between subsystems. Publish never blocks and never fails,
// even with zero subscribers (the event is simply discarded). Each
// subscriber has an independent bounded buffer; a subscriber that falls
// behind loses the overflowing events and is told how many it missed,
// rather than slowing the publisher or other subscribers down.
type EventBus struct {
	stream  *eventstream.EventStream
	bufSize int
}

// NewEventBus creates a bus with the default per-subscriber buffer.
func NewEventBus() *EventBus {
	return NewEventBusWithBuffer(DefaultBufferSize)
}

// NewEventBusWithBuffer creates a bus with the given per-subscriber
// buffer capacity.
func NewEventBusWithBuffer(bufSize int) *EventBus {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &EventBus{
		stream:  eventstream.NewEventStream(),
		bufSize: bufSize,
	}
}

// Publish delivers the event to every current subscriber's buffer.
func (b *EventBus) Publish(evt Event) {
	b.stream.Publish(evt)
}

// Subscribe returns a handle that observes every event published after
// this call, in publication order.
func (b *EventBus) Subscribe() *Subscription {
	s := &Subscription{
		bus: b,
		ch:  make(chan Event, b.bufSize),
	}
	s.sub = b.stream.Subscribe(func(evt interface{}) {
		select {
		case s.ch <- evt:
		default:
			// Buffer full: drop and account for it instead of
			// blocking the publisher.
			atomic.AddInt64(&s.lagged, 1)
		}
	})
	return s
}

// Subscription is an independent read cursor on the bus.
type Subscription struct {
	bus    *EventBus
	ch     chan Event
	sub    *eventstream.Subscription
	lagged int64
}

// C is the channel events arrive on.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// TakeLagged returns how many events were dropped since the last call
// and resets the counter.
func (s *Subscription) TakeLagged() int64 {
	return atomic.SwapInt64(&s.lagged, 0)
}

// Close detaches the subscription from the bus. Events already buffered
// remain readable from C.
func (s *Subscription) Close() {
	s.bus.stream.Unsubscribe(s.sub)
}
