package events

import "fmt"

type ScheduleStatus string

const (
	StatusInit       ScheduleStatus = "INIT"
	StatusPending    ScheduleStatus = "PENDING"
	StatusAssigned   ScheduleStatus = "ASSIGNED"
	StatusStarting   ScheduleStatus = "STARTING"
	StatusRunning    ScheduleStatus = "RUNNING"
	StatusFinished   ScheduleStatus = "FINISHED"
	StatusPreempting ScheduleStatus = "PREEMPTING"
	StatusRestarting ScheduleStatus = "RESTARTING"
	StatusDraining   ScheduleStatus = "DRAINING"
	StatusFailed     ScheduleStatus = "FAILED"
	StatusKilled     ScheduleStatus = "KILLED"
	StatusKilling    ScheduleStatus = "KILLING"
	StatusLost       ScheduleStatus = "LOST"
	StatusUnknown    ScheduleStatus = "UNKNOWN"
)

var scheduleStatuses = map[ScheduleStatus]bool{
	StatusInit:       false,
	StatusPending:    false,
	StatusAssigned:   false,
	StatusStarting:   false,
	StatusRunning:    false,
	StatusFinished:   true,
	StatusPreempting: false,
	StatusRestarting: false,
	StatusDraining:   false,
	StatusFailed:     true,
	StatusKilled:     true,
	StatusKilling:    false,
	StatusLost:       true,
	StatusUnknown:    false,
}

func ParseScheduleStatus(s string) (ScheduleStatus, error) {
	status := ScheduleStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown schedule status '%s'", s)
	}
	return status, nil
}

func (s ScheduleStatus) Valid() bool {
	_, ok := scheduleStatuses[s]
	return ok
}

// IsTerminal reports whether a task in this status will never run again.
func (s ScheduleStatus) IsTerminal() bool {
	return scheduleStatuses[s]
}

func (s ScheduleStatus) String() string {
	return string(s)
}
