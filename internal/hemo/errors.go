package hemo

import (
	"errors"
	"fmt"
)

// Domain errors for the valve engine.
var (
	// ErrUnknownSeverity indicates a severity name not present in the catalog.
	ErrUnknownSeverity = errors.New("hemo: unknown severity")

	// ErrNoSeeds indicates streamline tracing was requested with no seed points.
	ErrNoSeeds = errors.New("hemo: empty streamline seed set")
)

// ConfigError reports an invalid configuration input. Configuration errors
// surface before any frame is computed; they name the offending field and
// what was expected so the input can be fixed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

// IsConfig reports whether err is (or wraps) a configuration error.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
