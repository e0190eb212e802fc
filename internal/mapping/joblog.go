package mapping

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// JobLog is the per-job plain-text sink handed to the caller when a job
// fails. Every status line, info and error alike, lands here for post-mortem
// reading.
type JobLog struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// OpenJobLog creates (or truncates) the log file at path.
func OpenJobLog(path string) (*JobLog, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open job log: %w", err)
	}
	return &JobLog{file: file, path: path}, nil
}

// Path returns the log file location.
func (l *JobLog) Path() string {
	return l.path
}

// Infof records an informational status line.
func (l *JobLog) Infof(format string, args ...any) {
	l.write("INFO", fmt.Sprintf(format, args...))
}

// Errorf records an error status line.
func (l *JobLog) Errorf(format string, args ...any) {
	l.write("ERROR", fmt.Sprintf(format, args...))
}

// Section dumps a labelled multi-line block, used for captured process
// output.
func (l *JobLog) Section(label, body string) {
	if body == "" {
		return
	}
	l.write("INFO", fmt.Sprintf("---- %s ----\n%s", label, body))
}

// Close flushes and closes the log file.
func (l *JobLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *JobLog) write(level, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	timestamp := time.Now().UTC().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.file, "%s %s %s\n", timestamp, level, message)
}
