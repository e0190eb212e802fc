package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"mapsmith/internal/deps"
	"mapsmith/internal/logging"
	"mapsmith/internal/progress"
	"mapsmith/internal/services"
)

// requiredPackages is the ordered list of runtime libraries the analysis
// scripts import. Individual install failures are tolerated; the setup
// script re-verifies the full set.
var requiredPackages = []string{"WAV", "FFTW", "DSP", "JSON"}

// Bootstrapper prepares the runtime environment for map generation.
type Bootstrapper struct {
	logger      *slog.Logger
	reporter    *progress.Reporter
	setupScript string
}

// New builds a Bootstrapper that runs the given setup script.
func New(logger *slog.Logger, reporter *progress.Reporter, setupScript string) *Bootstrapper {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Bootstrapper{
		logger:      logging.NewComponentLogger(logger, "bootstrap"),
		reporter:    reporter,
		setupScript: setupScript,
	}
}

// EnsureRuntimePackages installs the required runtime packages best-effort,
// then runs the mandatory setup script. The script is idempotent, so calling
// this on an already prepared environment succeeds without side effects.
func (b *Bootstrapper) EnsureRuntimePackages(ctx context.Context, runtimePath string) error {
	if deps.AlreadyBootstrapped() {
		b.logger.Info("runtime environment already prepared, skipping bootstrap")
		b.reporter.Report(1, "runtime environment ready")
		return nil
	}

	total := len(requiredPackages) + 1
	for idx, pkg := range requiredPackages {
		b.reporter.Report(float64(idx)/float64(total), fmt.Sprintf("installing package %s", pkg))
		if err := b.installPackage(ctx, runtimePath, pkg); err != nil {
			b.logger.Warn("package install failed, deferring to setup script",
				logging.String("package", pkg),
				logging.Error(err))
		}
	}

	b.reporter.Report(float64(len(requiredPackages))/float64(total), "running setup script")
	if _, err := os.Stat(b.setupScript); err != nil {
		return services.Wrap(services.ErrSetupScript, "bootstrap", "setup", b.setupScript, err)
	}
	cmd := exec.CommandContext(ctx, runtimePath, b.setupScript)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = b.setupScript
		}
		return services.Wrap(services.ErrSetupScript, "bootstrap", "setup", detail, err)
	}

	b.reporter.Report(1, "runtime environment ready")
	b.logger.Info("runtime environment ready", logging.String("setup_script", b.setupScript))
	return nil
}

func (b *Bootstrapper) installPackage(ctx context.Context, runtimePath, pkg string) error {
	expr := fmt.Sprintf(`using Pkg; Pkg.add(%q)`, pkg)
	cmd := exec.CommandContext(ctx, runtimePath, "-e", expr)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return err
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	return nil
}
