package scheduler

import "github.com/dhardy92/incubator-aurora/events"

// DefaultBindings declares the lifecycle events fired around scheduler methods.
func DefaultBindings() map[string]events.Notify {
	return map[string]events.Notify{
		MethodStorageStart:   {After: events.BindingStorageStarted},
		MethodStorageStop:    {},
		MethodDriverRegister: {After: events.BindingDriverRegistered},
	}
}
