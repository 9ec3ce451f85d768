package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Binding registry ---

func TestResolve(t *testing.T) {
	e, err := Resolve(BindingStorageStarted)
	require.NoError(t, err)
	assert.Equal(t, StorageStarted{}, e)

	e, err = Resolve(BindingDriverRegistered)
	require.NoError(t, err)
	assert.Equal(t, DriverRegistered{}, e)

	e, err = Resolve(BindingNone)
	require.NoError(t, err)
	assert.Nil(t, e)

	e, err = Resolve("")
	require.NoError(t, err)
	assert.Nil(t, e)
}

func TestResolveUnknownBinding(t *testing.T) {
	_, err := Resolve("TasksDeleted")
	assert.ErrorIs(t, err, ErrUnknownBinding)
	assert.EqualError(t, err, "unknown binding 'TasksDeleted'")
}

func TestParseBinding(t *testing.T) {
	b, err := ParseBinding("DriverRegistered")
	require.NoError(t, err)
	assert.Equal(t, BindingDriverRegistered, b)

	_, err = ParseBinding("driverregistered")
	assert.ErrorIs(t, err, ErrUnknownBinding)

	_, err = ParseBinding("")
	assert.ErrorIs(t, err, ErrUnknownBinding)
}

func TestBindings(t *testing.T) {
	assert.Equal(t, []Binding{BindingNone, BindingStorageStarted, BindingDriverRegistered}, Bindings())
}

// --- Interceptor ---

func newTestInterceptor(t *testing.T, bus *Bus, opts ...InterceptorOption) *Interceptor {
	t.Helper()
	interceptor, err := NewInterceptor(bus, map[string]Notify{
		"storage.start":   {Before: BindingStorageStarted, After: BindingDriverRegistered},
		"driver.register": {After: BindingDriverRegistered},
		"noop":            {Before: BindingNone, After: BindingNone},
	}, opts...)
	require.NoError(t, err)
	return interceptor
}

func TestInvokeFiresBeforeAndAfterInOrder(t *testing.T) {
	bus := newTestBus()
	var journal []string
	bus.Register(&recorder{name: "A", journal: &journal})
	bus.Register(&recorder{name: "B", journal: &journal})
	interceptor := newTestInterceptor(t, bus)

	err := interceptor.Invoke("storage.start", func() error {
		journal = append(journal, "body")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"A:storage", "B:storage", "body", "A:driver", "B:driver"}, journal)
}

func TestInvokeUndeclaredMethod(t *testing.T) {
	bus := newTestBus()
	var journal []string
	bus.Register(&recorder{name: "A", journal: &journal})
	interceptor := newTestInterceptor(t, bus)

	require.NoError(t, interceptor.Invoke("unknown", func() error {
		journal = append(journal, "body")
		return nil
	}))
	require.NoError(t, interceptor.Invoke("noop", func() error {
		journal = append(journal, "body")
		return nil
	}))

	assert.Equal(t, []string{"body", "body"}, journal)
	assert.True(t, interceptor.Declared("noop"))
	assert.False(t, interceptor.Declared("unknown"))
}

func TestAfterOnSuccessSkipsAfterEventOnError(t *testing.T) {
	bus := newTestBus()
	var journal []string
	bus.Register(&recorder{name: "A", journal: &journal})
	interceptor := newTestInterceptor(t, bus)
	cause := errors.New("disk full")

	err := interceptor.Invoke("storage.start", func() error {
		journal = append(journal, "body")
		return cause
	})

	assert.Same(t, cause, err)
	assert.Equal(t, []string{"A:storage", "body"}, journal)
}

func TestAfterAlwaysFiresAfterEventOnError(t *testing.T) {
	bus := newTestBus()
	var journal []string
	bus.Register(&recorder{name: "A", journal: &journal})
	interceptor := newTestInterceptor(t, bus, WithAfterPolicy(AfterAlways))
	cause := errors.New("disk full")

	err := interceptor.Invoke("storage.start", func() error {
		journal = append(journal, "body")
		return cause
	})

	assert.Same(t, cause, err)
	assert.Equal(t, []string{"A:storage", "body", "A:driver"}, journal)
}

func TestAfterAlwaysFiresAfterEventOnPanic(t *testing.T) {
	bus := newTestBus()
	var journal []string
	bus.Register(&recorder{name: "A", journal: &journal})
	interceptor := newTestInterceptor(t, bus, WithAfterPolicy(AfterAlways))

	assert.PanicsWithValue(t, "boom", func() {
		_ = interceptor.Invoke("driver.register", func() error { panic("boom") })
	})
	assert.Equal(t, []string{"A:driver"}, journal)
}

func TestPublishFailureDoesNotChangeResult(t *testing.T) {
	bus := newTestBus()
	bus.Register(Funcs{StorageStarted: func(StorageStarted) error { return errors.New("nope") }})

	var reported []string
	interceptor := newTestInterceptor(t, bus, WithPublishErrorHandler(func(method string, err error) {
		assert.ErrorIs(t, err, ErrSubscriberFailure)
		reported = append(reported, method)
	}))

	called := false
	err := interceptor.Invoke("storage.start", func() error {
		called = true
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{"storage.start"}, reported)
}

func TestNewInterceptorRejectsUnknownBinding(t *testing.T) {
	_, err := NewInterceptor(newTestBus(), map[string]Notify{
		"storage.start": {After: "StorageStopped"},
	})

	assert.ErrorIs(t, err, ErrUnknownBinding)
	assert.EqualError(t, err, "method 'storage.start' after: unknown binding 'StorageStopped'")
}

func TestWrapAndInvokeValue(t *testing.T) {
	bus := newTestBus()
	var journal []string
	bus.Register(&recorder{name: "A", journal: &journal})
	interceptor := newTestInterceptor(t, bus)

	wrapped := interceptor.Wrap("driver.register", func() error { return nil })
	require.NoError(t, wrapped())

	id, err := InvokeValue(interceptor, "driver.register", func() (string, error) { return "framework-1", nil })
	require.NoError(t, err)
	assert.Equal(t, "framework-1", id)

	assert.Equal(t, []string{"A:driver", "A:driver"}, journal)
}

func TestParseAfterPolicy(t *testing.T) {
	policy, err := ParseAfterPolicy("always")
	require.NoError(t, err)
	assert.Equal(t, AfterAlways, policy)
	assert.Equal(t, "always", policy.String())

	_, err = ParseAfterPolicy("sometimes")
	assert.EqualError(t, err, "unknown after policy 'sometimes'")
}
