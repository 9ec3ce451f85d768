package events

import "fmt"

// Subscriber identifies a component that receives events.
//
// It has no methods of its own: a subscriber opts in to a variant by
// implementing the matching handler interface below. Handlers are looked up
// once, when the subscriber is registered on a Bus.
type Subscriber interface{}

type TasksDeletedHandler interface {
	OnTasksDeleted(TasksDeleted) error
}

type TaskStateChangeHandler interface {
	OnTaskStateChange(TaskStateChange) error
}

type VetoedHandler interface {
	OnVetoed(Vetoed) error
}

type TaskRescheduledHandler interface {
	OnTaskRescheduled(TaskRescheduled) error
}

type StorageStartedHandler interface {
	OnStorageStarted(StorageStarted) error
}

type DriverRegisteredHandler interface {
	OnDriverRegistered(DriverRegistered) error
}

// Named can be implemented by subscribers to be reported with a readable name in failures.
type Named interface {
	Name() string
}

// Funcs subscribes plain functions. Only non-nil fields are registered.
type Funcs struct {
	Name             string
	TasksDeleted     func(TasksDeleted) error
	TaskStateChange  func(TaskStateChange) error
	Vetoed           func(Vetoed) error
	TaskRescheduled  func(TaskRescheduled) error
	StorageStarted   func(StorageStarted) error
	DriverRegistered func(DriverRegistered) error
}

type handlerFunc func(Event) error

// handlersOf builds the dispatch table of a subscriber.
func handlersOf(s Subscriber) map[Kind]handlerFunc {
	handlers := make(map[Kind]handlerFunc)

	switch f := s.(type) {
	case Funcs:
		return f.handlers()
	case *Funcs:
		return f.handlers()
	}

	if h, ok := s.(TasksDeletedHandler); ok {
		handlers[KindTasksDeleted] = func(e Event) error { return h.OnTasksDeleted(e.(TasksDeleted)) }
	}
	if h, ok := s.(TaskStateChangeHandler); ok {
		handlers[KindTaskStateChange] = func(e Event) error { return h.OnTaskStateChange(e.(TaskStateChange)) }
	}
	if h, ok := s.(VetoedHandler); ok {
		handlers[KindVetoed] = func(e Event) error { return h.OnVetoed(e.(Vetoed)) }
	}
	if h, ok := s.(TaskRescheduledHandler); ok {
		handlers[KindTaskRescheduled] = func(e Event) error { return h.OnTaskRescheduled(e.(TaskRescheduled)) }
	}
	if h, ok := s.(StorageStartedHandler); ok {
		handlers[KindStorageStarted] = func(e Event) error { return h.OnStorageStarted(e.(StorageStarted)) }
	}
	if h, ok := s.(DriverRegisteredHandler); ok {
		handlers[KindDriverRegistered] = func(e Event) error { return h.OnDriverRegistered(e.(DriverRegistered)) }
	}

	return handlers
}

func (f *Funcs) handlers() map[Kind]handlerFunc {
	handlers := make(map[Kind]handlerFunc)
	if f.TasksDeleted != nil {
		handlers[KindTasksDeleted] = func(e Event) error { return f.TasksDeleted(e.(TasksDeleted)) }
	}
	if f.TaskStateChange != nil {
		handlers[KindTaskStateChange] = func(e Event) error { return f.TaskStateChange(e.(TaskStateChange)) }
	}
	if f.Vetoed != nil {
		handlers[KindVetoed] = func(e Event) error { return f.Vetoed(e.(Vetoed)) }
	}
	if f.TaskRescheduled != nil {
		handlers[KindTaskRescheduled] = func(e Event) error { return f.TaskRescheduled(e.(TaskRescheduled)) }
	}
	if f.StorageStarted != nil {
		handlers[KindStorageStarted] = func(e Event) error { return f.StorageStarted(e.(StorageStarted)) }
	}
	if f.DriverRegistered != nil {
		handlers[KindDriverRegistered] = func(e Event) error { return f.DriverRegistered(e.(DriverRegistered)) }
	}
	return handlers
}

func nameOf(s Subscriber) string {
	switch n := s.(type) {
	case Named:
		return n.Name()
	case Funcs:
		if n.Name != "" {
			return n.Name
		}
	case *Funcs:
		if n.Name != "" {
			return n.Name
		}
	}
	return fmt.Sprintf("%T", s)
}
