package events

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
)

// Handle identifies one registration on a Bus.
type Handle uint64

func (h Handle) String() string {
	return fmt.Sprintf("#%d", uint64(h))
}

// Publisher is the publishing side of a Bus.
type Publisher interface {
	Publish(Event) error
}

type registration struct {
	handle     Handle
	name       string
	subscriber Subscriber
	handlers   map[Kind]handlerFunc
}

// Bus delivers events synchronously to registered subscribers.
//
// Publish, Register and Unregister are serialized by a single lock which
// Publish holds for its whole delivery pass. Handlers must therefore not
// publish, register or unregister on the bus that is calling them.
type Bus struct {
	logger *slog.Logger

	mu            sync.Mutex
	lastHandle    Handle
	registrations []*registration
}

type Option func(*Bus)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

func NewBus(opts ...Option) *Bus {
	b := &Bus{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register adds a subscriber at the end of the delivery order.
// Registering the same subscriber twice yields two independent registrations.
func (b *Bus) Register(s Subscriber) Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastHandle++
	r := &registration{
		handle:     b.lastHandle,
		name:       nameOf(s),
		subscriber: s,
		handlers:   handlersOf(s),
	}
	b.registrations = append(b.registrations, r)

	if len(r.handlers) == 0 {
		b.logger.Debug("Subscriber handles no event", "subscriber", r.name, "handle", r.handle)
	} else {
		b.logger.Debug("Subscriber registered", "subscriber", r.name, "handle", r.handle, "handlers", len(r.handlers))
	}
	return r.handle
}

func (b *Bus) Unregister(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.registrations, func(r *registration) bool { return r.handle == h })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}

	b.logger.Debug("Subscriber unregistered", "subscriber", b.registrations[i].name, "handle", h)
	b.registrations = slices.Delete(b.registrations, i, i+1)
	return nil
}

// Len returns the number of registered subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.registrations)
}

// Publish delivers e to every subscriber handling its variant, in registration order.
// Every interested subscriber is attempted; if any of them failed, a *PublishError
// listing the failures is returned once delivery is over.
func (b *Bus) Publish(e Event) error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidEvent)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug("Publishing event", "event", e.String())

	var failures []*SubscriberFailure
	for _, r := range b.registrations {
		handler, ok := r.handlers[e.Kind()]
		if !ok {
			continue
		}

		if err := deliver(handler, e); err != nil {
			b.logger.Warn("Subscriber failed to handle event", "subscriber", r.name, "handle", r.handle, "event", e.String(), "error", err)
			failures = append(failures, &SubscriberFailure{
				Handle:     r.handle,
				Subscriber: r.name,
				Event:      e,
				Err:        err,
			})
		}
	}

	if len(failures) > 0 {
		return &PublishError{Event: e, Failures: failures}
	}
	return nil
}

func deliver(handler handlerFunc, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrHandlerPanic, r, debug.Stack())
		}
	}()
	return handler(e)
}
