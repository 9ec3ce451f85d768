package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dhardy92/incubator-aurora/events"
	"github.com/dhardy92/incubator-aurora/server/flags"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitUnknownFormat(t *testing.T) {
	viper.Set(flags.LogFormat, "yaml")
	t.Cleanup(viper.Reset)

	err := Init(&bytes.Buffer{})
	assert.EqualError(t, err, "unknown log format 'yaml'")
}

func TestInitBadLevel(t *testing.T) {
	viper.Set(flags.LogLevel, "LOUD")
	t.Cleanup(viper.Reset)

	err := Init(&bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse log level")
}

func TestComponentAndEventAttributes(t *testing.T) {
	viper.Set(flags.LogFormat, "json")
	viper.Set(flags.LogLevel, "INFO")
	t.Cleanup(viper.Reset)

	var buf bytes.Buffer
	require.NoError(t, Init(&buf))

	e, err := events.NewTaskStateChange("task-1", events.StatusPending, events.StatusAssigned)
	require.NoError(t, err)
	Component("audit").Info("Task state changed", Event(e))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "audit", record["component"])
	assert.Equal(t, map[string]any{
		"kind": "TaskStateChange",
		"key":  e.Key(),
	}, record["event"])
}
