package main

import (
	"sync"

	"github.com/dhardy92/incubator-aurora/events"
	"github.com/samber/lo"
)

// statusView is the in-memory task status reconstructed from the event stream.
// It is written by the bus and read by anyone reporting on the scheduler.
type statusView struct {
	mu               sync.RWMutex
	tasks            map[string]events.ScheduleStatus
	storageStarted   bool
	driverRegistered bool
	rescheduled      int
	vetoed           map[string]int
}

func newStatusView() *statusView {
	return &statusView{
		tasks:  map[string]events.ScheduleStatus{},
		vetoed: map[string]int{},
	}
}

func (v *statusView) Name() string { return "status" }

func (v *statusView) OnTaskStateChange(e events.TaskStateChange) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tasks[e.TaskID()] = e.NewState()
	return nil
}

func (v *statusView) OnTasksDeleted(e events.TasksDeleted) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, id := range e.TaskIDs() {
		delete(v.tasks, id)
		delete(v.vetoed, id)
	}
	return nil
}

func (v *statusView) OnVetoed(e events.Vetoed) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vetoed[e.TaskID()]++
	return nil
}

func (v *statusView) OnTaskRescheduled(events.TaskRescheduled) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rescheduled++
	return nil
}

func (v *statusView) OnStorageStarted(events.StorageStarted) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.storageStarted = true
	return nil
}

func (v *statusView) OnDriverRegistered(events.DriverRegistered) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.driverRegistered = true
	return nil
}

// Ready reports whether both the storage and the driver are up.
func (v *statusView) Ready() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.storageStarted && v.driverRegistered
}

func (v *statusView) Status(taskID string) (events.ScheduleStatus, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	status, ok := v.tasks[taskID]
	return status, ok
}

// Counts returns the number of known tasks per status.
func (v *statusView) Counts() map[events.ScheduleStatus]int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return lo.CountValues(lo.Values(v.tasks))
}
