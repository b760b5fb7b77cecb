// Package eventbus fans engine events out to in-process subscribers. The
// refresh loop publishes; consumers such as the event journal subscribe.
package eventbus

import "sync"

// Event is any value published on the bus.
type Event any

// subscriberBuffer bounds how many undelivered events a slow subscriber can
// hold before the bus starts dropping for it.
const subscriberBuffer = 16

// EventBus is the publish/subscribe surface used by the engine.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus delivers every published event to all current subscribers. A
// subscriber that falls behind loses events rather than stalling the
// publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[<-chan Event]chan Event
	closed bool
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: map[<-chan Event]chan Event{}}
}

// Publish delivers the event to every subscriber without blocking.
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

// Subscribe registers a subscriber and returns its receive channel. After
// Close the returned channel is already closed.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subs[ch] = ch
	return ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown
// channels are ignored.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.subs[sub]
	if !ok {
		return
	}
	delete(b.subs, sub)
	close(ch)
}

// Close closes every subscriber channel; later publishes are dropped.
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
	b.subs = nil
}
