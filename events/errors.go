package events

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	// ErrInvalidEvent is returned when an event is built with a missing or empty required field.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrUnknownBinding is returned when a binding name is not part of the binding registry.
	ErrUnknownBinding = errors.New("unknown binding")

	// ErrSubscriberFailure matches every failure reported by Publish.
	ErrSubscriberFailure = errors.New("subscriber failure")

	// ErrHandlerPanic is wrapped by failures caused by a panicking handler.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrUnknownHandle is returned when unregistering a handle the bus does not know.
	ErrUnknownHandle = errors.New("unknown subscriber handle")
)

type InvalidEventError struct {
	Event  Kind
	Field  string
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid %s event: %s %s", e.Event, e.Field, e.Reason)
}

func (e *InvalidEventError) Unwrap() error {
	return ErrInvalidEvent
}

func invalid(event Kind, field, reason string) error {
	return &InvalidEventError{Event: event, Field: field, Reason: reason}
}

// SubscriberFailure records one handler that failed during a Publish call.
type SubscriberFailure struct {
	Handle     Handle
	Subscriber string
	Event      Event
	Err        error
}

func (f *SubscriberFailure) Error() string {
	return fmt.Sprintf("subscriber '%s' (%s) failed to handle %s: %s", f.Subscriber, f.Handle, f.Event.Kind(), f.Err)
}

func (f *SubscriberFailure) Unwrap() []error {
	return []error{ErrSubscriberFailure, f.Err}
}

// PublishError aggregates every SubscriberFailure of a single Publish call.
type PublishError struct {
	Event    Event
	Failures []*SubscriberFailure
}

func (e *PublishError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "publish %s: %d subscriber(s) failed", e.Event.Kind(), len(e.Failures))
	for _, failure := range e.Failures {
		sb.WriteString("; ")
		sb.WriteString(failure.Error())
	}
	return sb.String()
}

func (e *PublishError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, failure := range e.Failures {
		errs[i] = failure
	}
	return errs
}

// Handles returns the handles of the failed subscribers, in delivery order.
func (e *PublishError) Handles() []Handle {
	return lo.Map(e.Failures, func(failure *SubscriberFailure, _ int) Handle {
		return failure.Handle
	})
}
