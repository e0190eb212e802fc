package install

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"mapsmith/internal/deps"
	"mapsmith/internal/services"
)

// Toolchain holds the verified external tools every job depends on.
type Toolchain struct {
	Runtime   deps.Target
	MediaTool deps.Target
}

// Resolver resolves the toolchain exactly once per process. A file lock
// serializes first-time installation across processes so two daemons cannot
// race the same install root.
type Resolver struct {
	installer *Installer
	lockPath  string

	once      sync.Once
	toolchain Toolchain
	err       error
}

// NewResolver builds a Resolver whose cross-process lock lives under lockDir.
func NewResolver(installer *Installer, lockDir string) *Resolver {
	return &Resolver{
		installer: installer,
		lockPath:  filepath.Join(lockDir, "install.lock"),
	}
}

// Toolchain returns the resolved toolchain, running the installers on first
// call. Every caller after the first observes the same result.
func (r *Resolver) Toolchain(ctx context.Context) (Toolchain, error) {
	r.once.Do(func() {
		r.toolchain, r.err = r.resolve(ctx)
	})
	return r.toolchain, r.err
}

func (r *Resolver) resolve(ctx context.Context) (Toolchain, error) {
	if err := os.MkdirAll(filepath.Dir(r.lockPath), 0o755); err != nil {
		return Toolchain{}, services.Wrap(services.ErrConfiguration, "resolver", "lock", r.lockPath, err)
	}
	lock := flock.New(r.lockPath)
	locked, err := lock.TryLockContext(ctx, time.Second)
	if err != nil {
		return Toolchain{}, services.Wrap(services.ErrConfiguration, "resolver", "lock", r.lockPath, err)
	}
	if !locked {
		return Toolchain{}, services.Wrap(services.ErrConfiguration, "resolver", "lock", "could not acquire install lock", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runtimeTarget, err := r.installer.EnsureRuntime(ctx)
	if err != nil {
		return Toolchain{}, err
	}
	mediaTarget, err := r.installer.EnsureMediaTool(ctx)
	if err != nil {
		return Toolchain{}, err
	}
	return Toolchain{Runtime: runtimeTarget, MediaTool: mediaTarget}, nil
}
