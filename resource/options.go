package resource

import "log/slog"

type settings struct {
	name    string
	logger  *slog.Logger
	initial any
}

// Option configures a Resource.
type Option func(*settings)

// WithName labels the resource in log records.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithLogger overrides the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithInitialValue sets the value exposed before the first fetch resolves.
// The value must have the resource's value type; otherwise it is ignored.
func WithInitialValue[V any](v V) Option {
	return func(s *settings) {
		s.initial = v
	}
}
