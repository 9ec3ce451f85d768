package scheduler

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dhardy92/incubator-aurora/configuration"
	"github.com/dhardy92/incubator-aurora/events"
	"github.com/samber/lo"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskTerminal    = errors.New("task is in a terminal state")
	ErrTaskNotTerminal = errors.New("task is not in a terminal state")
	ErrJobExists       = errors.New("job already has active tasks")
)

// StateManager applies task state changes to the storage and publishes the
// matching events. Events are published once the storage lock is released;
// a state change is kept even if some subscribers failed to handle its event,
// in which case the delivery error is returned.
type StateManager struct {
	config  Config
	storage *Storage
	log     *slog.Logger

	newTaskID func(job JobKey, shard int) string
}

func NewStateManager(config Config, storage *Storage) *StateManager {
	return &StateManager{
		config:    config,
		storage:   storage,
		log:       config.Logger.With("component", "state"),
		newTaskID: newTaskID,
	}
}

// InsertJob creates one PENDING task per instance of the job and returns their IDs, ordered by shard.
func (m *StateManager) InsertJob(config *configuration.SanitizedConfiguration) ([]string, error) {
	job := JobKeyOf(config.JobConfig())
	taskConfigs := config.TaskConfigs()
	shards := lo.Keys(taskConfigs)
	slices.Sort(shards)

	var ids []string
	var pending []events.Event
	err := m.storage.Write(func(tasks map[string]*Task) error {
		if lo.SomeBy(lo.Values(tasks), func(t *Task) bool { return t.Job == job && !t.Status.IsTerminal() }) {
			return fmt.Errorf("%w: %s", ErrJobExists, job.FQN())
		}

		created := make([]*Task, 0, len(shards))
		reserved := map[string]bool{}
		for _, shard := range shards {
			task := &Task{
				ID:     m.freshTaskID(tasks, reserved, job, shard),
				Job:    job,
				Shard:  shard,
				Status: events.StatusPending,
				Config: taskConfigs[shard],
			}
			change, err := events.NewTaskStateChange(task.ID, events.StatusInit, events.StatusPending)
			if err != nil {
				return err
			}
			created = append(created, task)
			pending = append(pending, change)
		}

		for _, task := range created {
			tasks[task.ID] = task
			ids = append(ids, task.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("Job inserted", "job", job.FQN(), "tasks", len(ids), "cron", config.IsCron())
	return ids, m.publish(pending...)
}

// ChangeState moves a task to status. Changing a task to its current status is a no-op.
func (m *StateManager) ChangeState(taskID string, status events.ScheduleStatus) error {
	var change *events.TaskStateChange
	err := m.storage.Write(func(tasks map[string]*Task) error {
		task, ok := tasks[taskID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		if task.Status == status {
			return nil
		}
		if task.Status.IsTerminal() {
			return fmt.Errorf("%w: %s is %s", ErrTaskTerminal, taskID, task.Status)
		}

		e, err := events.NewTaskStateChange(taskID, task.Status, status)
		if err != nil {
			return err
		}
		task.Status = status
		change = &e
		return nil
	})
	if err != nil || change == nil {
		return err
	}

	m.log.Debug("Task state changed", "task", taskID, "old", change.OldState(), "new", change.NewState())
	return m.publish(*change)
}

// Veto reports that a placement attempt for a task was rejected.
func (m *StateManager) Veto(taskID string, vetoes ...events.Veto) error {
	err := m.storage.Read(func(tasks map[string]*Task) error {
		if _, ok := tasks[taskID]; !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	vetoed, err := events.NewVetoed(taskID, vetoes...)
	if err != nil {
		return err
	}
	return m.publish(vetoed)
}

// Reschedule replaces a terminated task with a new PENDING task for the same shard
// and returns the new task ID.
func (m *StateManager) Reschedule(taskID string) (string, error) {
	var replacement *Task
	var pending []events.Event
	err := m.storage.Write(func(tasks map[string]*Task) error {
		task, ok := tasks[taskID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		}
		if !task.Status.IsTerminal() {
			return fmt.Errorf("%w: %s is %s", ErrTaskNotTerminal, taskID, task.Status)
		}

		rescheduled, err := events.NewTaskRescheduled(task.Job.Role, task.Job.Name, task.Shard)
		if err != nil {
			return err
		}
		replacement = &Task{
			ID:     m.freshTaskID(tasks, nil, task.Job, task.Shard),
			Job:    task.Job,
			Shard:  task.Shard,
			Status: events.StatusPending,
			Config: task.Config,
		}
		change, err := events.NewTaskStateChange(replacement.ID, events.StatusInit, events.StatusPending)
		if err != nil {
			return err
		}

		tasks[replacement.ID] = replacement
		pending = append(pending, rescheduled, change)
		return nil
	})
	if err != nil {
		return "", err
	}

	m.log.Info("Task rescheduled", "task", taskID, "shard", replacement.FQN(), "replacement", replacement.ID)
	return replacement.ID, m.publish(pending...)
}

// DeleteTasks removes tasks from the storage. Unknown IDs are ignored.
func (m *StateManager) DeleteTasks(taskIDs ...string) error {
	var deleted []string
	err := m.storage.Write(func(tasks map[string]*Task) error {
		for _, id := range lo.Uniq(taskIDs) {
			if _, ok := tasks[id]; ok {
				delete(tasks, id)
				deleted = append(deleted, id)
			}
		}
		return nil
	})
	if err != nil || len(deleted) == 0 {
		return err
	}

	e, err := events.NewTasksDeleted(deleted...)
	if err != nil {
		return err
	}
	m.log.Info("Tasks deleted", "tasks", strings.Join(deleted, ","))
	return m.publish(e)
}

// Task looks a task up by ID. It fails with ErrStorageNotStarted before the storage is started.
func (m *StateManager) Task(taskID string) (task Task, found bool, err error) {
	err = m.storage.Read(func(tasks map[string]*Task) error {
		if t, ok := tasks[taskID]; ok {
			task, found = *t, true
		}
		return nil
	})
	return
}

// freshTaskID generates task IDs until one is neither stored nor reserved.
// The returned ID is added to reserved when it is not nil.
func (m *StateManager) freshTaskID(tasks map[string]*Task, reserved map[string]bool, job JobKey, shard int) string {
	for {
		id := m.newTaskID(job, shard)
		if _, taken := tasks[id]; taken || reserved[id] {
			m.log.Debug("Task ID already in use, generating another one", "task", id)
			continue
		}
		if reserved != nil {
			reserved[id] = true
		}
		return id
	}
}

// Tasks returns every stored task, ordered by ID.
func (m *StateManager) Tasks() ([]Task, error) {
	tasks, err := m.storage.Snapshot()
	if err != nil {
		return nil, err
	}
	ids := lo.Keys(tasks)
	slices.Sort(ids)
	return lo.Map(ids, func(id string, _ int) Task {
		return tasks[id]
	}), nil
}

func (m *StateManager) publish(pending ...events.Event) error {
	var errs []error
	for _, e := range pending {
		if err := m.config.Publisher.Publish(e); err != nil {
			m.log.Warn("Event delivery failed", "event", e.String(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
