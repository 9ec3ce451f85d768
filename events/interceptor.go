package events

import (
	"fmt"
	"log/slog"
)

// Notify declares the events to fire around a method.
// Zero fields mean BindingNone.
type Notify struct {
	Before Binding
	After  Binding
}

// AfterPolicy decides whether the after event fires when the method fails.
type AfterPolicy int

const (
	// AfterOnSuccess fires the after event only when the method returns a nil error.
	AfterOnSuccess AfterPolicy = iota
	// AfterAlways fires the after event whatever the outcome, panics included.
	AfterAlways
)

func ParseAfterPolicy(s string) (AfterPolicy, error) {
	switch s {
	case "success":
		return AfterOnSuccess, nil
	case "always":
		return AfterAlways, nil
	default:
		return 0, fmt.Errorf("unknown after policy '%s'", s)
	}
}

func (p AfterPolicy) String() string {
	switch p {
	case AfterOnSuccess:
		return "success"
	case AfterAlways:
		return "always"
	default:
		return fmt.Sprintf("AfterPolicy(%d)", int(p))
	}
}

type resolvedNotify struct {
	before Event
	after  Event
}

// Interceptor publishes the events declared for a method around its invocation.
// Its binding table is resolved when it is built and never changes afterwards.
type Interceptor struct {
	publisher      Publisher
	methods        map[string]resolvedNotify
	policy         AfterPolicy
	logger         *slog.Logger
	onPublishError func(method string, err error)
}

type InterceptorOption func(*Interceptor)

func WithAfterPolicy(policy AfterPolicy) InterceptorOption {
	return func(i *Interceptor) {
		i.policy = policy
	}
}

func WithInterceptorLogger(logger *slog.Logger) InterceptorOption {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

// WithPublishErrorHandler is called whenever publishing a bound event fails.
// Publishing failures never change the result of the intercepted method.
func WithPublishErrorHandler(fn func(method string, err error)) InterceptorOption {
	return func(i *Interceptor) {
		i.onPublishError = fn
	}
}

// NewInterceptor resolves every binding of table. An unknown binding fails
// here, so that a bad declaration is caught at startup rather than per call.
func NewInterceptor(publisher Publisher, table map[string]Notify, opts ...InterceptorOption) (*Interceptor, error) {
	i := &Interceptor{
		publisher: publisher,
		methods:   make(map[string]resolvedNotify, len(table)),
		policy:    AfterOnSuccess,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}

	for method, notify := range table {
		before, err := Resolve(notify.Before)
		if err != nil {
			return nil, fmt.Errorf("method '%s' before: %w", method, err)
		}
		after, err := Resolve(notify.After)
		if err != nil {
			return nil, fmt.Errorf("method '%s' after: %w", method, err)
		}
		i.methods[method] = resolvedNotify{before: before, after: after}
	}

	return i, nil
}

// Invoke calls fn, publishing the events bound to method before and after it.
// The error returned is always fn's own.
func (i *Interceptor) Invoke(method string, fn func() error) error {
	notify, ok := i.methods[method]
	if !ok {
		return fn()
	}

	i.publish(method, "before", notify.before)

	if i.policy == AfterAlways {
		defer i.publish(method, "after", notify.after)
		return fn()
	}

	err := fn()
	if err == nil {
		i.publish(method, "after", notify.after)
	}
	return err
}

// Wrap binds fn to method for later invocation.
func (i *Interceptor) Wrap(method string, fn func() error) func() error {
	return func() error {
		return i.Invoke(method, fn)
	}
}

// Declared reports whether method has an entry in the binding table.
func (i *Interceptor) Declared(method string) bool {
	_, ok := i.methods[method]
	return ok
}

func (i *Interceptor) publish(method, when string, e Event) {
	if e == nil {
		return
	}

	i.logger.Debug("Firing bound event", "method", method, "when", when, "event", e.String())
	if err := i.publisher.Publish(e); err != nil {
		i.logger.Warn("Bound event delivery failed", "method", method, "when", when, "event", e.String(), "error", err)
		if i.onPublishError != nil {
			i.onPublishError(method, err)
		}
	}
}

// InvokeValue is Invoke for methods returning a value.
func InvokeValue[T any](i *Interceptor, method string, fn func() (T, error)) (T, error) {
	var result T
	err := i.Invoke(method, func() (err error) {
		result, err = fn()
		return err
	})
	return result, err
}
