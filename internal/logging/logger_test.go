package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mapsmith/internal/logging"
	"mapsmith/internal/services"
)

func TestNewForDirWritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := logging.NewForDir(dir, "info", "json")
	if err != nil {
		t.Fatalf("NewForDir: %v", err)
	}

	logger.Info("job started", logging.String("job_id", "abc"))

	data, err := os.ReadFile(filepath.Join(dir, "mapsmith.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"job started"`) {
		t.Fatalf("unexpected log contents: %s", data)
	}
	if !strings.Contains(string(data), `"job_id":"abc"`) {
		t.Fatalf("missing structured field: %s", data)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestContextFieldsExtraction(t *testing.T) {
	ctx := services.WithJobID(context.Background(), "job-1")
	ctx = services.WithStage(ctx, "invoking")
	ctx = services.WithTool(ctx, "julia")

	fields := logging.ContextFields(ctx)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %v", fields)
	}
	keys := map[string]bool{}
	for _, attr := range fields {
		keys[attr.Key] = true
	}
	for _, want := range []string{logging.FieldJobID, logging.FieldStage, logging.FieldTool} {
		if !keys[want] {
			t.Fatalf("missing field %q in %v", want, fields)
		}
	}
}

func TestWithContextOnEmptyContextReturnsLogger(t *testing.T) {
	logger := logging.NewNop()
	if got := logging.WithContext(context.Background(), logger); got != logger {
		t.Fatal("expected unchanged logger for empty context")
	}
}
