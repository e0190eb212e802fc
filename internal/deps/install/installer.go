package install

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"mapsmith/internal/config"
	"mapsmith/internal/deps"
	"mapsmith/internal/logging"
	"mapsmith/internal/progress"
	"mapsmith/internal/services"
)

// State tracks one tool's installation progress.
type State string

const (
	StateNotFound    State = "not_found"
	StateDownloading State = "downloading"
	StateInstalling  State = "installing"
	StateVerifying   State = "verifying"
	StateInstalled   State = "installed"
	StateFailed      State = "failed"
)

// Installer downloads and installs the runtime and media tool when the probe
// cannot find them on the host.
type Installer struct {
	cfg      *config.Config
	logger   *slog.Logger
	reporter *progress.Reporter
	client   *http.Client
}

// New builds an Installer. A nil reporter drops progress events.
func New(cfg *config.Config, logger *slog.Logger, reporter *progress.Reporter) *Installer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Installer{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "installer"),
		reporter: reporter,
		client:   &http.Client{},
	}
}

// EnsureRuntime returns a verified runtime target, installing a managed copy
// when the probe finds nothing on the host.
func (i *Installer) EnsureRuntime(ctx context.Context) (deps.Target, error) {
	tool := i.cfg.RuntimeBinary()
	target, err := deps.Resolve(ctx, tool)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, services.ErrProbeNotFound) {
		return target, err
	}

	i.transition(ctx, tool, StateNotFound)
	url, err := RuntimeDownloadURL(i.cfg.Runtime.Version, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, err
	}

	archivePath, err := i.fetch(ctx, tool, url, i.cfg.Runtime.DownloadTimeout)
	if err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, err
	}
	defer os.Remove(archivePath)

	i.transition(ctx, tool, StateInstalling)
	switch runtime.GOOS {
	case "windows":
		err = i.installRuntimeWindows(ctx, archivePath)
	case "darwin":
		err = i.installRuntimeDarwin(ctx, archivePath)
	default:
		err = i.installRuntimeLinux(archivePath)
	}
	if err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, err
	}

	i.transition(ctx, tool, StateVerifying)
	target, err = deps.Resolve(ctx, tool)
	if err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, services.Wrap(services.ErrInstallVerification, "installer", "ensure-runtime", "installed runtime failed probe", err)
	}
	i.transition(ctx, tool, StateInstalled)
	i.reporter.Report(1, "runtime installed")
	return target, nil
}

// EnsureMediaTool returns a verified media tool target, installing a managed
// copy when the probe finds nothing on the host. A launcher that already put
// the tool on PATH short-circuits the install.
func (i *Installer) EnsureMediaTool(ctx context.Context) (deps.Target, error) {
	tool := i.cfg.MediaToolBinary()
	target, err := deps.Resolve(ctx, tool)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, services.ErrProbeNotFound) {
		return target, err
	}
	if deps.MediaToolPreinstalled() {
		// The launcher claimed the tool is on PATH but the probe disagrees.
		return deps.Target{}, services.Wrap(services.ErrProbeNotFound, "installer", "ensure-media-tool",
			fmt.Sprintf("%s flagged as preinstalled but not found on PATH", tool), err)
	}

	i.transition(ctx, tool, StateNotFound)
	url, err := MediaToolDownloadURL(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, err
	}

	archivePath, err := i.fetch(ctx, tool, url, i.cfg.MediaTool.DownloadTimeout)
	if err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, err
	}
	defer os.Remove(archivePath)

	i.transition(ctx, tool, StateInstalling)
	switch runtime.GOOS {
	case "windows":
		err = i.installMediaToolWindows(archivePath)
	default:
		err = i.installMediaToolLinux(archivePath)
	}
	if err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, err
	}

	i.transition(ctx, tool, StateVerifying)
	binPath, err := findBinary(i.cfg.MediaTool.InstallDir, deps.ExecutableName(tool))
	if err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, services.Wrap(services.ErrInstallVerification, "installer", "ensure-media-tool", "extracted archive missing binary", err)
	}
	if err := deps.Verify(ctx, binPath, tool); err != nil {
		i.transition(ctx, tool, StateFailed)
		return deps.Target{}, err
	}
	deps.AppendToPath(filepath.Dir(binPath))

	i.transition(ctx, tool, StateInstalled)
	i.reporter.Report(1, "media tool installed")
	return deps.Target{Tool: tool, OS: runtime.GOOS, Arch: runtime.GOARCH, Path: binPath, Verified: true}, nil
}

func (i *Installer) fetch(ctx context.Context, tool, url string, timeoutSeconds int) (string, error) {
	i.transition(ctx, tool, StateDownloading)
	dlCtx := ctx
	if timeoutSeconds > 0 {
		var cancel context.CancelFunc
		dlCtx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
		defer cancel()
	}
	return i.download(dlCtx, url)
}

func (i *Installer) transition(ctx context.Context, tool string, state State) {
	logging.WithContext(services.WithTool(ctx, tool), i.logger).Info("install state",
		logging.String("state", string(state)))
}

// findBinary walks root looking for an executable file with the given name.
func findBinary(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || entry.Name() != name {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
			return nil
		}
		found = path
		return fs.SkipAll
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", fmt.Errorf("no %s binary under %s", name, root)
	}
	return found, nil
}
