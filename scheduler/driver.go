package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

const MethodDriverRegister = "driver.register"

var ErrDriverAlreadyRegistered = errors.New("driver is already registered")

// Driver tracks the registration of the scheduler with the cluster manager.
type Driver struct {
	config Config
	log    *slog.Logger

	mu          sync.Mutex
	frameworkID string
}

func NewDriver(config Config) *Driver {
	return &Driver{
		config: config,
		log:    config.Logger.With("component", "driver"),
	}
}

// Register records the framework ID handed out by the cluster manager,
// firing the events bound to MethodDriverRegister.
func (d *Driver) Register(ctx context.Context, frameworkID string) error {
	return d.config.Interceptor.Invoke(MethodDriverRegister, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if frameworkID == "" {
			return fmt.Errorf("framework id must not be empty")
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		if d.frameworkID != "" {
			return fmt.Errorf("%w as '%s'", ErrDriverAlreadyRegistered, d.frameworkID)
		}
		d.frameworkID = frameworkID
		d.log.Info("Driver registered", "framework", frameworkID)
		return nil
	})
}

func (d *Driver) FrameworkID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frameworkID
}

func (d *Driver) Registered() bool {
	return d.FrameworkID() != ""
}
