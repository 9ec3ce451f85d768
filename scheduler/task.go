package scheduler

import (
	"fmt"

	"github.com/dhardy92/incubator-aurora/configuration"
	"github.com/dhardy92/incubator-aurora/events"
	"github.com/dhardy92/incubator-aurora/namegen"
)

type Task struct {
	ID     string
	Job    JobKey
	Shard  int
	Status events.ScheduleStatus
	Config configuration.TaskConfig
}

// FQN identifies the job shard the task belongs to, across reschedules.
func (t Task) FQN() string {
	return fmt.Sprintf("%s/%d", t.Job.FQN(), t.Shard)
}

func newTaskID(job JobKey, shard int) string {
	return namegen.Suffixed(fmt.Sprintf("%s-%s-%s-%d", job.Role, job.Environment, job.Name, shard))
}
