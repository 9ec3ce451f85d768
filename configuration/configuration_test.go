package configuration

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJobConfig() JobConfig {
	return JobConfig{
		Role:      "www-data",
		Name:      "hello",
		Instances: 2,
		Task: TaskConfig{
			Command:   "./hello",
			Resources: Resources{CPU: 1, RAMMB: 128, DiskMB: 128},
		},
	}
}

// --- Sanitizing ---

func TestFromUnsanitizedPopulatesDefaults(t *testing.T) {
	config, err := FromUnsanitized(newTestJobConfig())
	require.NoError(t, err)

	job := config.JobConfig()
	assert.Equal(t, DefaultEnvironment, job.Environment)
	assert.Equal(t, DefaultCronCollisionPolicy, job.CronCollisionPolicy)
	assert.Equal(t, DefaultMaxTaskFailures, job.Task.MaxFailures)
	assert.Equal(t, "www-data/devel/hello", job.Key())
}

func TestFromUnsanitizedKeepsExplicitValues(t *testing.T) {
	unsanitized := newTestJobConfig()
	unsanitized.Environment = "staging2"
	unsanitized.Task.MaxFailures = 4

	config, err := FromUnsanitized(unsanitized)
	require.NoError(t, err)
	assert.Equal(t, "staging2", config.JobConfig().Environment)
	assert.Equal(t, 4, config.JobConfig().Task.MaxFailures)
}

func TestTaskConfigs(t *testing.T) {
	unsanitized := newTestJobConfig()
	unsanitized.Instances = 3

	config, err := FromUnsanitized(unsanitized)
	require.NoError(t, err)

	tasks := config.TaskConfigs()
	assert.ElementsMatch(t, []int{0, 1, 2}, lo.Keys(tasks))
	for _, task := range tasks {
		assert.Equal(t, config.JobConfig().Task, task)
	}

	delete(tasks, 0)
	assert.Len(t, config.TaskConfigs(), 3, "TaskConfigs must return a copy")
}

func TestIsCron(t *testing.T) {
	tests := []struct {
		name     string
		schedule *string
		expected bool
	}{
		{"no schedule", nil, false},
		{"empty schedule", lo.ToPtr(""), false},
		{"schedule", lo.ToPtr("0 * * * *"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsanitized := newTestJobConfig()
			unsanitized.CronSchedule = tt.schedule

			config, err := FromUnsanitized(unsanitized)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, config.IsCron())
		})
	}
}

func TestEqual(t *testing.T) {
	a := newTestJobConfig()
	a.CronSchedule = lo.ToPtr("0 * * * *")
	b := newTestJobConfig()
	b.CronSchedule = lo.ToPtr("0 * * * *")

	configA := lo.Must(FromUnsanitized(a))
	configB := lo.Must(FromUnsanitized(b))
	assert.True(t, configA.Equal(configB))

	b.Instances = 5
	assert.False(t, configA.Equal(lo.Must(FromUnsanitized(b))))
	assert.Equal(t, "www-data/devel/hello (2 instances)", configA.String())
}

// --- Validation ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*JobConfig)
		expected string
	}{
		{"missing role", func(j *JobConfig) { j.Role = "" }, "role must be a valid identifier"},
		{"bad name", func(j *JobConfig) { j.Name = "hello world" }, "name must be a valid identifier"},
		{"bad environment", func(j *JobConfig) { j.Environment = "qa" }, "environment should be one of prod, devel, test or staging<number>, got 'qa'"},
		{"no instances", func(j *JobConfig) { j.Instances = 0 }, "instances must be greater than 0"},
		{"cron service", func(j *JobConfig) { j.Service = true; j.CronSchedule = lo.ToPtr("* * * * *") }, "a service cannot have a cron schedule"},
		{"bad collision policy", func(j *JobConfig) { j.CronCollisionPolicy = "PANIC" }, "cron_collision_policy must be one of KILL_EXISTING, CANCEL_NEW, RUN_OVERLAP"},
		{"missing command", func(j *JobConfig) { j.Task.Command = " " }, "task.command is required"},
		{"no cpu", func(j *JobConfig) { j.Task.Resources.CPU = 0 }, "task.resources.cpu must be greater than 0"},
		{"no ram", func(j *JobConfig) { j.Task.Resources.RAMMB = 0 }, "task.resources.ram_mb must be greater than 0"},
		{"no disk", func(j *JobConfig) { j.Task.Resources.DiskMB = -1 }, "task.resources.disk_mb must be greater than 0"},
		{"negative failures", func(j *JobConfig) { j.Task.MaxFailures = -1 }, "task.max_failures must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := newTestJobConfig()
			tt.mutate(&job)

			_, err := FromUnsanitized(job)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.expected)
		})
	}
}

// --- Reading ---

func TestReadService(t *testing.T) {
	config, err := Read("testdata/valid_service.yaml", ReadOptions{Bindings: map[string]string{"port": " 9090 "}})
	require.NoError(t, err)

	job := config.JobConfig()
	assert.Equal(t, "www-data/prod/hello", job.Key())
	assert.Equal(t, "./hello_world --port 9090", job.Task.Command)
	assert.Equal(t, 0.5, job.Task.Resources.CPU)
	assert.Len(t, config.TaskConfigs(), 3)
	assert.False(t, config.IsCron())
}

func TestReadCron(t *testing.T) {
	config, err := Read("testdata/valid_cron.yaml", ReadOptions{})
	require.NoError(t, err)
	assert.True(t, config.IsCron())
	assert.Equal(t, "www-data/devel/cleanup", config.JobConfig().Key())
}

func TestReadMissingBinding(t *testing.T) {
	_, err := Read("testdata/valid_service.yaml", ReadOptions{})
	assert.ErrorContains(t, err, "evaluate template")
}

func TestReadUnknownField(t *testing.T) {
	_, err := Read("testdata/invalid_unknown_field.yaml", ReadOptions{})

	var unmarshalErr UnmarshalError
	require.ErrorAs(t, err, &unmarshalErr)
	assert.ErrorContains(t, err, "field daemon not found")
	assert.Contains(t, unmarshalErr.Source, "daemon: true")
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read("testdata/nope.yaml", ReadOptions{})
	assert.ErrorContains(t, err, "read file")
}
