package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

const (
	MethodStorageStart = "storage.start"
	MethodStorageStop  = "storage.stop"
)

var (
	ErrStorageNotStarted     = errors.New("storage is not started")
	ErrStorageAlreadyStarted = errors.New("storage is already started")
)

// Storage holds the tasks known to the scheduler. It must be started before use.
type Storage struct {
	config Config
	log    *slog.Logger

	mu      sync.RWMutex
	started bool
	tasks   map[string]*Task
}

func NewStorage(config Config) *Storage {
	return &Storage{
		config: config,
		log:    config.Logger.With("component", "storage"),
		tasks:  make(map[string]*Task),
	}
}

// Start initializes the storage, firing the events bound to MethodStorageStart.
func (s *Storage) Start(ctx context.Context) error {
	return s.config.Interceptor.Invoke(MethodStorageStart, func() error {
		return s.start(ctx)
	})
}

func (s *Storage) start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrStorageAlreadyStarted
	}
	s.started = true
	s.log.Info("Storage started", "tasks", len(s.tasks))
	return nil
}

func (s *Storage) Stop() error {
	return s.config.Interceptor.Invoke(MethodStorageStop, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.started {
			return ErrStorageNotStarted
		}
		s.started = false
		s.log.Info("Storage stopped")
		return nil
	})
}

func (s *Storage) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Write runs fn with exclusive access to the task map.
func (s *Storage) Write(fn func(tasks map[string]*Task) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrStorageNotStarted
	}
	return fn(s.tasks)
}

// Read runs fn with shared access to the task map. fn must not modify it.
func (s *Storage) Read(fn func(tasks map[string]*Task) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrStorageNotStarted
	}
	return fn(s.tasks)
}

// Snapshot returns a copy of every stored task.
func (s *Storage) Snapshot() (map[string]Task, error) {
	snapshot := make(map[string]Task)
	err := s.Read(func(tasks map[string]*Task) error {
		for id, task := range tasks {
			snapshot[id] = *task
		}
		return nil
	})
	return snapshot, err
}
