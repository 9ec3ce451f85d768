// Package events is the in-process notification core of the scheduler.
//
// Components that change task or job state publish one of a closed set of
// immutable event variants on a [Bus]. Components that react to those
// changes register a subscriber implementing one handler interface per
// variant they care about (see [TaskStateChangeHandler] and friends).
//
// Delivery is synchronous: [Bus.Publish] returns once every interested
// subscriber has been called, in registration order. A failing subscriber
// never prevents delivery to the others; failures are reported to the
// publisher as a [PublishError] once all subscribers have been attempted.
//
// Lifecycle events (storage started, driver registered) can also be fired
// declaratively: an [Interceptor] is built from a static table mapping
// method names to a [Notify] declaration, and publishes the bound events
// before and/or after the wrapped call.
//
//	interceptor, err := events.NewInterceptor(bus, map[string]events.Notify{
//		"storage.start": {After: events.BindingStorageStarted},
//	})
//	...
//	err = interceptor.Invoke("storage.start", storage.start)
package events
