package stockparity

import (
	"time"

	"github.com/retailops/stockparity/internal/config"
	"github.com/retailops/stockparity/pkg/errors"
	"github.com/retailops/stockparity/pkg/sources"
	"github.com/rs/zerolog"
)

// options holds the configured state for a Stockparity instance.
type options struct {
	config  *config.Config
	sources []sources.Source
	logger  *zerolog.Logger
	runID   string
	now     func() time.Time
}

func defaultOptions() *options {
	return &options{
		now: time.Now,
	}
}

// Option is a function that configures a Stockparity instance.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns instance options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithConfig sets the run configuration.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return &errors.ValidationError{
				Field:   "config",
				Message: "cannot be nil",
			}
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile loads the run configuration from a YAML file.
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithSource registers a source under its ID, taking precedence over
// the adapter that would otherwise be built from configuration.
func WithSource(src sources.Source) Option {
	return func(o *options) error {
		if src == nil {
			return &errors.ValidationError{
				Field:   "source",
				Message: "cannot be nil",
			}
		}
		if !src.ID().IsValid() {
			return &errors.ValidationError{
				Field:   "source",
				Value:   src.ID().String(),
				Message: "unknown source id",
			}
		}
		o.sources = append(o.sources, src)
		return nil
	}
}

// WithLogger sets the logger for run events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = &logger
		return nil
	}
}

// WithRunID pins the run identifier. Each run normally gets a fresh
// UUID; pinning makes artifact paths predictable.
func WithRunID(id string) Option {
	return func(o *options) error {
		if id == "" {
			return &errors.ValidationError{
				Field:   "run_id",
				Message: "cannot be empty",
			}
		}
		o.runID = id
		return nil
	}
}

// WithNow sets the clock used to resolve default snapshot windows.
func WithNow(now func() time.Time) Option {
	return func(o *options) error {
		if now == nil {
			return &errors.ValidationError{
				Field:   "now",
				Message: "cannot be nil",
			}
		}
		o.now = now
		return nil
	}
}
