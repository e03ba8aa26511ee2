// ABOUTME: In-process publish/subscribe bus for data-change notifications.
// ABOUTME: Handlers run synchronously on the publisher's goroutine, in registration order.
package events

import "sync"

// Well-known event names.
const (
	WorkoutsUpdated  = "WORKOUTS_UPDATED"
	TemplatesUpdated = "TEMPLATES_UPDATED"
)

// Handler receives the payload passed to Publish. Payload may be nil.
// Handlers must return quickly: a slow handler blocks the publisher.
type Handler func(payload any)

// Subscription identifies one registration of a handler.
type Subscription struct {
	bus     *Bus
	event   string
	handler Handler
}

// Event returns the event name the subscription listens to.
func (s *Subscription) Event() string {
	return s.event
}

// Unsubscribe removes this registration. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s.event, s)
}

// Bus is a synchronous event registry. The zero value is not usable; call New.
// Its state lives only in memory and is discarded with the process.
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]*Subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{handlers: make(map[string][]*Subscription)}
}

// Subscribe registers h under event. The same function may be registered
// several times; each registration is called once per publish.
func (b *Bus) Subscribe(event string, h Handler) *Subscription {
	sub := &Subscription{bus: b, event: event, handler: h}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], sub)
	return sub
}

// Unsubscribe removes exactly one registration. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(event string, sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[event]
	for i, s := range subs {
		if s != sub {
			continue
		}
		// Copy rather than shift in place: a Publish in progress may hold the old slice.
		next := make([]*Subscription, 0, len(subs)-1)
		next = append(next, subs[:i]...)
		next = append(next, subs[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, event)
		} else {
			b.handlers[event] = next
		}
		return
	}
}

// Publish calls every handler registered for event at the time of the call.
func (b *Bus) Publish(event string, payload any) {
	b.mu.Lock()
	subs := b.handlers[event]
	b.mu.Unlock()

	for _, s := range subs {
		s.handler(payload)
	}
}

// HandlerCount returns the number of registrations for event.
func (b *Bus) HandlerCount(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[event])
}

// Close drops every registration. Call at application shutdown.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[string][]*Subscription)
}
