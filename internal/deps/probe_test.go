package deps_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"mapsmith/internal/deps"
	"mapsmith/internal/services"
)

func writeStubBinary(t *testing.T, dir, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries require a POSIX shell")
	}
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\necho stub version 1.0\nexit 0\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub binary: %v", err)
	}
	return path
}

func TestLocateFindsBinaryOnPath(t *testing.T) {
	dir := t.TempDir()
	want := writeStubBinary(t, dir, "julia")
	t.Setenv("PATH", dir)

	got, ok := deps.Locate("julia")
	if !ok {
		t.Fatal("expected to locate stub binary")
	}
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
}

func TestLocateLocalSubdirectoryAppendsPath(t *testing.T) {
	base := t.TempDir()
	binDir := filepath.Join(base, "ffmpeg", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeStubBinary(t, binDir, "ffmpeg")

	t.Setenv("PATH", t.TempDir())
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(base); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})

	got, ok := deps.Locate("ffmpeg")
	if !ok {
		t.Fatal("expected to locate local subdirectory binary")
	}
	if got != want {
		t.Fatalf("unexpected path: got %q want %q", got, want)
	}
	if !strings.Contains(os.Getenv("PATH"), binDir) {
		t.Fatalf("expected PATH to gain %q, got %q", binDir, os.Getenv("PATH"))
	}
}

func TestLocateIgnoresNonExecutableFiles(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "julia"), []byte("not a binary"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	t.Setenv("PATH", dir)
	t.Setenv("HOME", t.TempDir())

	if _, ok := deps.Locate("julia"); ok {
		t.Fatal("expected non-executable file to be skipped")
	}
}

func TestResolveReturnsVerifiedTarget(t *testing.T) {
	dir := t.TempDir()
	writeStubBinary(t, dir, "julia")
	t.Setenv("PATH", dir)

	target, err := deps.Resolve(context.Background(), "julia")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !target.Verified {
		t.Fatal("expected verified target")
	}
	if target.Tool != "julia" || target.Path == "" {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestResolveMissingToolReturnsProbeNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := deps.Resolve(context.Background(), "julia")
	if err == nil {
		t.Fatal("expected error for missing tool")
	}
	if !errors.Is(err, services.ErrProbeNotFound) {
		t.Fatalf("expected ErrProbeNotFound, got %v", err)
	}
}

func TestVerifyFailingBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries require a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "julia")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 3\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	err := deps.Verify(context.Background(), path, "julia")
	if err == nil {
		t.Fatal("expected verification failure")
	}
	if !errors.Is(err, services.ErrInstallVerification) {
		t.Fatalf("expected ErrInstallVerification, got %v", err)
	}
}

func TestCheckBinariesReportsMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "Runtime", Command: "julia", Description: "audio analysis runtime"},
		{Name: "Unset", Command: "", Optional: true},
	})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected runtime to be unavailable")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
	if statuses[1].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", statuses[1].Detail)
	}
}

func TestMediaToolPreinstalled(t *testing.T) {
	t.Setenv(deps.EnvMediaToolOnPath, "true")
	if !deps.MediaToolPreinstalled() {
		t.Fatal("expected preinstalled signal to be honored")
	}
	t.Setenv(deps.EnvMediaToolOnPath, "false")
	if deps.MediaToolPreinstalled() {
		t.Fatal("expected false value to be ignored")
	}
}
