package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger creates the process-wide zap.Logger. Production config (JSON
// output) so the log lines stay in a stable, parseable shape for the
// external alerting that consumes them.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service", "data-pipeline")), nil
}
