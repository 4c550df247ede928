//go:build darwin

package power

import (
	"context"
	"log/slog"
	"os/exec"
)

// caffeinate -i blocks idle sleep for as long as the process lives.
func inhibit(ctx context.Context, logger *slog.Logger) func() {
	cmd := exec.CommandContext(ctx, "caffeinate", "-i")
	if err := cmd.Start(); err != nil {
		logger.Warn("sleep inhibition unavailable", "error", err)
		return func() {}
	}
	logger.Debug("sleep inhibited", "pid", cmd.Process.Pid)
	return func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}
}
