package main

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/dhardy92/incubator-aurora/configuration"
	"github.com/dhardy92/incubator-aurora/events"
	schedulerpkg "github.com/dhardy92/incubator-aurora/scheduler"
	"github.com/dhardy92/incubator-aurora/server/flags"
	"github.com/dhardy92/incubator-aurora/server/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("AURORA_LOG_LEVEL", "ERROR")
	os.Setenv("AURORA_LOG_FORMAT", "text")
	if err := log.Init(io.Discard); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func mapGetter(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestConfiguredBindingsDefaults(t *testing.T) {
	bindings, err := configuredBindings(mapGetter(nil))
	require.NoError(t, err)
	assert.Equal(t, schedulerpkg.DefaultBindings(), bindings)
}

func TestConfiguredBindingsOverrides(t *testing.T) {
	bindings, err := configuredBindings(mapGetter(map[string]string{
		flags.BindingStorageStartBefore:  "DriverRegistered",
		flags.BindingStorageStartAfter:   "None",
		flags.BindingDriverRegisterAfter: "StorageStarted",
	}))
	require.NoError(t, err)

	assert.Equal(t, events.Notify{Before: events.BindingDriverRegistered, After: events.BindingNone}, bindings[schedulerpkg.MethodStorageStart])
	assert.Equal(t, events.Notify{After: events.BindingStorageStarted}, bindings[schedulerpkg.MethodDriverRegister])
	assert.Equal(t, events.Notify{}, bindings[schedulerpkg.MethodStorageStop])
}

func TestConfiguredBindingsUnknown(t *testing.T) {
	_, err := configuredBindings(mapGetter(map[string]string{
		flags.BindingDriverRegisterBefore: "storagestarted",
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, events.ErrUnknownBinding)
	assert.Contains(t, err.Error(), flags.BindingDriverRegisterBefore)
}

func TestSchedulerLifecycle(t *testing.T) {
	require.NoError(t, createScheduler())
	t.Cleanup(func() {
		shutdownScheduler()
		handles = nil
	})

	ctx := context.Background()
	assert.False(t, status.Ready())

	require.NoError(t, storage.Start(ctx))
	assert.False(t, status.Ready(), "the driver is not registered yet")

	require.NoError(t, driver.Register(ctx, "aurora-test"))
	assert.True(t, status.Ready())

	config, err := configuration.Read("../configuration/testdata/valid_cron.yaml", configuration.ReadOptions{})
	require.NoError(t, err)
	ids, err := state.InsertJob(config)
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	for _, id := range ids {
		s, found := status.Status(id)
		require.True(t, found, id)
		assert.Equal(t, events.StatusPending, s)
	}
	assert.Equal(t, len(ids), status.Counts()[events.StatusPending])

	require.NoError(t, state.DeleteTasks(ids...))
	assert.Empty(t, status.Counts())
}
