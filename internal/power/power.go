// Package power keeps the machine awake while a long batch run is active.
package power

import (
	"context"
	"log/slog"
)

// Inhibit asks the OS not to sleep until the returned release function is
// called. On platforms without a supported mechanism it is a no-op.
func Inhibit(ctx context.Context, logger *slog.Logger) (release func()) {
	if logger == nil {
		logger = slog.Default()
	}
	return inhibit(ctx, logger)
}
