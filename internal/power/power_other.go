//go:build !darwin

package power

import (
	"context"
	"log/slog"
)

func inhibit(_ context.Context, _ *slog.Logger) func() {
	return func() {}
}
