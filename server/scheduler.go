package main

import (
	"fmt"

	"github.com/dhardy92/incubator-aurora/events"
	schedulerpkg "github.com/dhardy92/incubator-aurora/scheduler"
	"github.com/dhardy92/incubator-aurora/server/flags"
	"github.com/dhardy92/incubator-aurora/server/log"
	"github.com/spf13/viper"
)

var (
	bus     *events.Bus
	storage *schedulerpkg.Storage
	driver  *schedulerpkg.Driver
	state   *schedulerpkg.StateManager
	status  *statusView
	handles []events.Handle
)

func createScheduler() error {
	bus = events.NewBus(events.WithLogger(log.Component("bus")))

	status = newStatusView()
	handles = append(handles,
		bus.Register(newAuditSubscriber(log.Component("audit"))),
		bus.Register(status),
	)

	policy, err := events.ParseAfterPolicy(viper.GetString(flags.AfterPolicy))
	if err != nil {
		return err
	}
	bindings, err := configuredBindings(viper.GetString)
	if err != nil {
		return err
	}
	interceptor, err := events.NewInterceptor(bus, bindings,
		events.WithAfterPolicy(policy),
		events.WithInterceptorLogger(log.Component("interceptor")),
		events.WithPublishErrorHandler(func(method string, err error) {
			log.Error("Lifecycle event delivery failed", "method", method, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("invalid bindings: %w", err)
	}

	config := schedulerpkg.Config{
		Logger:      log.Component("scheduler"),
		Publisher:   bus,
		Interceptor: interceptor,
	}
	if err := schedulerpkg.Validate(config); err != nil {
		return fmt.Errorf("invalid scheduler config: %w", err)
	}

	storage = schedulerpkg.NewStorage(config)
	driver = schedulerpkg.NewDriver(config)
	state = schedulerpkg.NewStateManager(config, storage)
	return nil
}

// configuredBindings overrides the default scheduler bindings with the configured ones.
func configuredBindings(get func(key string) string) (map[string]events.Notify, error) {
	bindings := schedulerpkg.DefaultBindings()

	overrides := []struct {
		method string
		before string
		after  string
	}{
		{schedulerpkg.MethodStorageStart, flags.BindingStorageStartBefore, flags.BindingStorageStartAfter},
		{schedulerpkg.MethodDriverRegister, flags.BindingDriverRegisterBefore, flags.BindingDriverRegisterAfter},
	}

	for _, o := range overrides {
		notify := bindings[o.method]
		if name := get(o.before); name != "" {
			b, err := events.ParseBinding(name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", o.before, err)
			}
			notify.Before = b
		}
		if name := get(o.after); name != "" {
			b, err := events.ParseBinding(name)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", o.after, err)
			}
			notify.After = b
		}
		bindings[o.method] = notify
	}

	return bindings, nil
}

func shutdownScheduler() {
	if err := storage.Stop(); err != nil {
		log.Warn("Failed to stop storage", "error", err)
	}
	for _, h := range handles {
		if err := bus.Unregister(h); err != nil {
			log.Warn("Failed to unregister subscriber", "handle", h, "error", err)
			continue
		}
		log.Debug("Subscriber unregistered", "handle", h)
	}
}
