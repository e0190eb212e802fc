package mapping_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mapsmith/internal/mapping"
)

func TestJobLogRecordsAllLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "process_log.txt")
	jobLog, err := mapping.OpenJobLog(path)
	if err != nil {
		t.Fatalf("OpenJobLog: %v", err)
	}

	jobLog.Infof("job %s started", "abc")
	jobLog.Errorf("something broke: %v", "boom")
	jobLog.Section("process stderr", "line one\nline two")
	jobLog.Section("empty", "")
	if err := jobLog.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "INFO job abc started") {
		t.Fatalf("missing info line:\n%s", text)
	}
	if !strings.Contains(text, "ERROR something broke: boom") {
		t.Fatalf("missing error line:\n%s", text)
	}
	if !strings.Contains(text, "---- process stderr ----") || !strings.Contains(text, "line two") {
		t.Fatalf("missing section block:\n%s", text)
	}
	if strings.Contains(text, "---- empty ----") {
		t.Fatalf("empty section should be skipped:\n%s", text)
	}
}

func TestJobLogCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "process_log.txt")
	jobLog, err := mapping.OpenJobLog(path)
	if err != nil {
		t.Fatalf("OpenJobLog: %v", err)
	}
	if err := jobLog.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := jobLog.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	jobLog.Infof("after close is a no-op")
}
