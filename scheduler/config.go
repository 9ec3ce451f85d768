package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/dhardy92/incubator-aurora/events"
)

type Config struct {
	Logger      *slog.Logger        `json:"-"`
	Publisher   events.Publisher    `json:"-"`
	Interceptor *events.Interceptor `json:"-"`
}

func Validate(config Config) error {
	if config.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if config.Publisher == nil {
		return fmt.Errorf("publisher is required")
	}
	if config.Interceptor == nil {
		return fmt.Errorf("interceptor is required")
	}
	return nil
}
