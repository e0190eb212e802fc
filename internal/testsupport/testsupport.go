package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"mapsmith/internal/config"
	"mapsmith/internal/deps/install"
	"mapsmith/internal/queue"
)

// NewConfig returns a validated configuration rooted in a temp directory,
// with all required directories created and short timeouts suitable for
// tests.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()

	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.OutputDir = filepath.Join(base, "maps")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Runtime.InstallRoot = filepath.Join(base, "runtime")
	cfg.Runtime.ScriptPath = filepath.Join(base, "scripts", "mapsongs.jl")
	cfg.Runtime.SetupScript = filepath.Join(base, "scripts", "setup.jl")
	cfg.MediaTool.InstallDir = filepath.Join(base, "mediatool")
	cfg.Workflow.GenerateTimeout = 30

	if err := os.MkdirAll(filepath.Dir(cfg.Runtime.ScriptPath), 0o755); err != nil {
		t.Fatalf("create script directory: %v", err)
	}
	for _, path := range []string{cfg.Runtime.ScriptPath, cfg.Runtime.SetupScript} {
		if err := os.WriteFile(path, []byte("# placeholder\n"), 0o644); err != nil {
			t.Fatalf("write script placeholder: %v", err)
		}
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// MustOpenStore opens the job store under the config's data directory and
// closes it when the test finishes.
func MustOpenStore(t *testing.T, cfg *config.Config) *queue.Store {
	t.Helper()
	store, err := queue.Open(cfg.Paths.DataDir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// StubToolchain fabricates a verified toolchain whose runtime is a shell
// script with the given body. The script receives the analysis process
// arguments: script path, audio copy, difficulty file, aux config file.
func StubToolchain(t *testing.T, runtimeBody string) install.Toolchain {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries require a POSIX shell")
	}
	dir := t.TempDir()

	runtimePath := filepath.Join(dir, "julia")
	if err := os.WriteFile(runtimePath, []byte("#!/bin/sh\n"+runtimeBody+"\n"), 0o755); err != nil {
		t.Fatalf("write runtime stub: %v", err)
	}
	mediaPath := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(mediaPath, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write media tool stub: %v", err)
	}

	return install.Toolchain{
		Runtime:   installTarget("julia", runtimePath),
		MediaTool: installTarget("ffmpeg", mediaPath),
	}
}

// WriteAudioFixture drops a small fake audio file and returns its path.
func WriteAudioFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("RIFF....WAVEfmt fake audio payload"), 0o644); err != nil {
		t.Fatalf("write audio fixture: %v", err)
	}
	return path
}
