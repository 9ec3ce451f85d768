package main

import (
	"log/slog"

	"github.com/dhardy92/incubator-aurora/events"
	"github.com/dhardy92/incubator-aurora/server/log"
)

// auditSubscriber writes every event it receives to the audit log.
type auditSubscriber struct {
	logger *slog.Logger
}

func newAuditSubscriber(logger *slog.Logger) *auditSubscriber {
	return &auditSubscriber{logger: logger}
}

func (a *auditSubscriber) Name() string { return "audit" }

func (a *auditSubscriber) OnTasksDeleted(e events.TasksDeleted) error {
	a.logger.Info("Tasks deleted", log.Event(e), "tasks", e.TaskIDs())
	return nil
}

func (a *auditSubscriber) OnTaskStateChange(e events.TaskStateChange) error {
	a.logger.Info("Task state changed", log.Event(e), "task", e.TaskID(), "old", e.OldState(), "new", e.NewState())
	return nil
}

func (a *auditSubscriber) OnVetoed(e events.Vetoed) error {
	a.logger.Info("Task vetoed", log.Event(e), "task", e.TaskID(), "vetoes", len(e.Vetoes()))
	return nil
}

func (a *auditSubscriber) OnTaskRescheduled(e events.TaskRescheduled) error {
	a.logger.Info("Task rescheduled", log.Event(e), "role", e.Role(), "job", e.Job(), "shard", e.Shard())
	return nil
}

func (a *auditSubscriber) OnStorageStarted(e events.StorageStarted) error {
	a.logger.Info("Storage started", log.Event(e))
	return nil
}

func (a *auditSubscriber) OnDriverRegistered(e events.DriverRegistered) error {
	a.logger.Info("Driver registered", log.Event(e))
	return nil
}
