package events

import (
	"fmt"
	"slices"
)

// Binding names a lifecycle event that can be fired by an Interceptor.
type Binding string

const (
	BindingNone             Binding = "None"
	BindingStorageStarted   Binding = "StorageStarted"
	BindingDriverRegistered Binding = "DriverRegistered"
)

// bindingOrder is the closed set of bindings, in declaration order.
var bindingOrder = []Binding{
	BindingNone,
	BindingStorageStarted,
	BindingDriverRegistered,
}

// bindings is built once and only read afterwards.
var bindings = map[Binding]Event{
	BindingNone:             nil,
	BindingStorageStarted:   StorageStarted{},
	BindingDriverRegistered: DriverRegistered{},
}

// Bindings returns every known binding name.
func Bindings() []Binding {
	return slices.Clone(bindingOrder)
}

// ParseBinding converts a configured name to a Binding. Names are case-sensitive.
func ParseBinding(name string) (Binding, error) {
	b := Binding(name)
	if _, ok := bindings[b]; !ok {
		return "", fmt.Errorf("%w '%s'", ErrUnknownBinding, name)
	}
	return b, nil
}

// Resolve returns the event bound to b. BindingNone, as well as the zero
// Binding, resolves to a nil event.
func Resolve(b Binding) (Event, error) {
	if b == "" {
		return nil, nil
	}

	e, ok := bindings[b]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownBinding, b)
	}
	return e, nil
}

func (b Binding) String() string {
	return string(b)
}
