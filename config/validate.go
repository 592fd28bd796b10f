package config

import (
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/procgen/arena"
	"github.com/wippyai/procgen/errors"
	"github.com/wippyai/procgen/runtime"
)

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var err error

	if _, e := arena.TrySizeFor(c.Memory, c.Chunks); e != nil {
		err = multierr.Append(err, fieldError("memory", c.Memory, e))
	}

	switch runtime.Backing(c.Backing) {
	case runtime.BackingHeap, runtime.BackingWasm:
	default:
		err = multierr.Append(err, fieldError("backing", c.Backing, nil))
	}

	if _, e := zapcore.ParseLevel(c.LogLevel); e != nil {
		err = multierr.Append(err, fieldError("log_level", c.LogLevel, e))
	}

	switch c.OutputFormat {
	case OutputText, OutputJSON:
	default:
		err = multierr.Append(err, fieldError("output", c.OutputFormat, nil))
	}

	return err
}

func fieldError(field string, value any, cause error) *errors.Error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(field).
		Value(value).
		Cause(cause).
		Detail("invalid value %v", value).
		Build()
}
