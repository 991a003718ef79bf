package tags

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"cubby/internal/logging"
	"cubby/internal/services"
)

// Service applies and removes macOS Finder-style tags on filesystem paths.
// Implementations must be safe to call on every cycle; tagging is a side
// channel and must never fail the organizer.
type Service interface {
	Apply(ctx context.Context, path, name, color string) error
	Remove(ctx context.Context, path, name string) error
	Available() bool
}

// NewFromEnvironment probes for the tag command and returns a service backed
// by it, or a no-op service when the binary is missing. The warning is
// emitted once here rather than on every cycle.
func NewFromEnvironment(logger *slog.Logger) Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	binary, err := exec.LookPath("tag")
	if err != nil {
		logger.Warn("tag command not found; folder tagging disabled (install with: brew install tag)")
		return noopService{}
	}
	return &cliService{binary: binary, logger: logger}
}

// NewCLI returns a service that shells out to the given tag binary.
func NewCLI(binary string, logger *slog.Logger) Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &cliService{binary: binary, logger: logger}
}

// NewNoop returns a service that accepts every request and does nothing.
func NewNoop() Service {
	return noopService{}
}

type cliService struct {
	binary string
	logger *slog.Logger
}

func (s *cliService) Apply(ctx context.Context, path, name, color string) error {
	// Strip any stale instance first so repeated applications stay
	// idempotent instead of stacking duplicates.
	remove := exec.CommandContext(ctx, s.binary, "-r", name, path)
	if err := remove.Run(); err != nil {
		s.logger.Debug("pre-apply tag removal failed",
			logging.String("path", path),
			logging.String("tag", name),
			logging.Error(err))
	}

	spec := name
	if color != "" {
		spec = name + "," + color
	}
	add := exec.CommandContext(ctx, s.binary, "-a", spec, path)
	output, err := add.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "tags", "apply", commandDetail(output, "tag -a exited"), err)
	}
	return nil
}

func (s *cliService) Remove(ctx context.Context, path, name string) error {
	cmd := exec.CommandContext(ctx, s.binary, "-r", name, path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "tags", "remove", commandDetail(output, "tag -r exited"), err)
	}
	return nil
}

func (s *cliService) Available() bool { return true }

type noopService struct{}

func (noopService) Apply(context.Context, string, string, string) error { return nil }

func (noopService) Remove(context.Context, string, string) error { return nil }

func (noopService) Available() bool { return false }

func commandDetail(output []byte, fallback string) string {
	if trimmed := strings.TrimSpace(string(output)); trimmed != "" {
		return trimmed
	}
	return fallback
}
