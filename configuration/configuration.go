package configuration

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultEnvironment         = "devel"
	DefaultMaxTaskFailures     = 1
	DefaultCronCollisionPolicy = "KILL_EXISTING"
)

type JobConfig struct {
	Role                string  `yaml:"role"`
	Environment         string  `yaml:"environment"`
	Name                string  `yaml:"name"`
	Instances           int     `yaml:"instances"`
	CronSchedule        *string `yaml:"cron_schedule"`
	CronCollisionPolicy string  `yaml:"cron_collision_policy"`
	Service             bool    `yaml:"service"`

	Task TaskConfig `yaml:"task"`
}

type TaskConfig struct {
	Command     string    `yaml:"command"`
	Resources   Resources `yaml:"resources"`
	MaxFailures int       `yaml:"max_failures"`
	Priority    int       `yaml:"priority"`
	Production  bool      `yaml:"production"`
}

type Resources struct {
	CPU    float64 `yaml:"cpu"`
	RAMMB  int64   `yaml:"ram_mb"`
	DiskMB int64   `yaml:"disk_mb"`
}

func (j JobConfig) Key() string {
	return fmt.Sprintf("%s/%s/%s", j.Role, j.Environment, j.Name)
}

var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
var stagingRegex = regexp.MustCompile(`^staging\d*$`)

var cronCollisionPolicies = []string{"KILL_EXISTING", "CANCEL_NEW", "RUN_OVERLAP"}

// Validate checks a job configuration whose defaults have already been populated.
func (j JobConfig) Validate() error {
	if !identifierRegex.MatchString(j.Role) {
		return fmt.Errorf("role must be a valid identifier")
	}
	if !identifierRegex.MatchString(j.Name) {
		return fmt.Errorf("name must be a valid identifier")
	}
	if !stagingRegex.MatchString(j.Environment) && !lo.Contains([]string{"prod", "devel", "test"}, j.Environment) {
		return fmt.Errorf("environment should be one of prod, devel, test or staging<number>, got '%s'", j.Environment)
	}
	if j.Instances < 1 {
		return fmt.Errorf("instances must be greater than 0")
	}
	if j.Service && j.CronSchedule != nil && *j.CronSchedule != "" {
		return fmt.Errorf("a service cannot have a cron schedule")
	}
	if !lo.Contains(cronCollisionPolicies, j.CronCollisionPolicy) {
		return fmt.Errorf("cron_collision_policy must be one of %s", strings.Join(cronCollisionPolicies, ", "))
	}

	if strings.TrimSpace(j.Task.Command) == "" {
		return fmt.Errorf("task.command is required")
	}
	if j.Task.Resources.CPU <= 0 {
		return fmt.Errorf("task.resources.cpu must be greater than 0")
	}
	if j.Task.Resources.RAMMB <= 0 {
		return fmt.Errorf("task.resources.ram_mb must be greater than 0")
	}
	if j.Task.Resources.DiskMB <= 0 {
		return fmt.Errorf("task.resources.disk_mb must be greater than 0")
	}
	if j.Task.MaxFailures < 0 {
		return fmt.Errorf("task.max_failures must not be negative")
	}

	return nil
}

// SanitizedConfiguration wraps a job configuration that has been validated and populated with defaults.
type SanitizedConfiguration struct {
	sanitized JobConfig
	tasks     map[int]TaskConfig
	logger    *slog.Logger
}

// FromUnsanitized populates defaults on a copy of unsanitized, validates it and wraps it.
func FromUnsanitized(unsanitized JobConfig) (*SanitizedConfiguration, error) {
	sanitized := unsanitized
	sanitized.Environment = lo.Must(lo.Coalesce(sanitized.Environment, DefaultEnvironment))
	sanitized.CronCollisionPolicy = lo.Must(lo.Coalesce(sanitized.CronCollisionPolicy, DefaultCronCollisionPolicy))
	if sanitized.Task.MaxFailures == 0 {
		sanitized.Task.MaxFailures = DefaultMaxTaskFailures
	}
	if sanitized.CronSchedule != nil {
		schedule := *sanitized.CronSchedule
		sanitized.CronSchedule = &schedule
	}

	if err := sanitized.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job %s: %w", sanitized.Key(), err)
	}

	return &SanitizedConfiguration{
		sanitized: sanitized,
		tasks: lo.SliceToMap(lo.Range(sanitized.Instances), func(instance int) (int, TaskConfig) {
			return instance, sanitized.Task
		}),
		logger: slog.Default(),
	}, nil
}

func (c *SanitizedConfiguration) JobConfig() JobConfig {
	return c.sanitized
}

// TaskConfigs returns the task configuration of every instance, keyed by instance ID.
func (c *SanitizedConfiguration) TaskConfigs() map[int]TaskConfig {
	return lo.Assign(c.tasks)
}

// IsCron reports whether the job runs on a cron schedule.
// An explicitly empty schedule is not a cron job.
func (c *SanitizedConfiguration) IsCron() bool {
	if c.sanitized.CronSchedule == nil {
		return false
	}
	if *c.sanitized.CronSchedule == "" {
		c.logger.Warn("Got service config with empty string cron schedule, it will not be treated as a cron job", "job", c.sanitized.Key())
		return false
	}
	return true
}

func (c *SanitizedConfiguration) Equal(other *SanitizedConfiguration) bool {
	if c == nil || other == nil {
		return c == other
	}
	a, b := c.sanitized, other.sanitized
	if (a.CronSchedule == nil) != (b.CronSchedule == nil) {
		return false
	}
	if a.CronSchedule != nil && *a.CronSchedule != *b.CronSchedule {
		return false
	}
	a.CronSchedule, b.CronSchedule = nil, nil
	return a == b
}

func (c *SanitizedConfiguration) String() string {
	return fmt.Sprintf("%s (%d instances)", c.sanitized.Key(), c.sanitized.Instances)
}
