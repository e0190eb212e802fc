package mapping

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"mapsmith/internal/logging"
)

func TestRemoveGeneratedReportsOutcome(t *testing.T) {
	dir := t.TempDir()

	target := filepath.Join(dir, "abcd_song")
	if err := os.MkdirAll(filepath.Join(target, "info"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if !removeGenerated(logging.NewNop(), target) {
		t.Fatal("expected successful removal to be reported as cleaned")
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("expected directory removed, stat err=%v", err)
	}

	// An already-missing directory still counts as cleaned.
	if !removeGenerated(logging.NewNop(), filepath.Join(dir, "gone")) {
		t.Fatal("expected missing directory to count as cleaned")
	}
}

func TestRemoveGeneratedFailureIsNotCleaned(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("ENOTDIR semantics differ on windows")
	}
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	// A path whose parent is a regular file cannot be removed.
	if removeGenerated(logging.NewNop(), filepath.Join(file, "nested")) {
		t.Fatal("expected failed removal to be reported as not cleaned")
	}
}
