package scheduler

import (
	"fmt"

	"github.com/dhardy92/incubator-aurora/configuration"
)

type JobKey struct {
	Role        string
	Environment string
	Name        string
}

func JobKeyOf(config configuration.JobConfig) JobKey {
	return JobKey{Role: config.Role, Environment: config.Environment, Name: config.Name}
}

func (k JobKey) FQN() string {
	return fmt.Sprintf("%s/%s/%s", k.Role, k.Environment, k.Name)
}
