package execution

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/tweakctl/internal/core/logging"
)

type options struct {
	logger *zerolog.Logger
}

// Option configures a Pipeline or Coordinator.
type Option func(*options)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

func buildOptions(component string, opts []Option) zerolog.Logger {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		return *o.logger
	}
	return logging.Component(component)
}
