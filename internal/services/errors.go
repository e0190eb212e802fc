package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mapsmith/internal/queue"
)

// Sentinel markers for failure classification. Wrap tags errors with one of
// these so callers can branch on the category without parsing messages.
var (
	// ErrProbeNotFound signals a tool is absent from the host; non-fatal,
	// it triggers the installer.
	ErrProbeNotFound = errors.New("tool not found")
	// ErrUnsupportedArch signals no installer artifact exists for the host
	// architecture.
	ErrUnsupportedArch = errors.New("unsupported architecture")
	// ErrDownloadFailed signals an installer artifact could not be fetched.
	ErrDownloadFailed = errors.New("download failed")
	// ErrInstallVerification signals an installed tool failed its version probe.
	ErrInstallVerification = errors.New("install verification failed")
	// ErrSetupScript signals the mandatory runtime setup script is missing
	// or exited non-zero.
	ErrSetupScript = errors.New("setup script failure")
	// ErrExternalProcess signals the analysis process exited non-zero.
	ErrExternalProcess = errors.New("external process failure")
	// ErrAmbiguousOutput signals the output directory convention matched
	// zero or multiple directories.
	ErrAmbiguousOutput = errors.New("ambiguous output directory")
	// ErrValidation signals bad caller input.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration signals unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalProcess
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureStatus maps a job error to the queue status the orchestrator should
// persist after the job fails.
func FailureStatus(err error) queue.Status {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return queue.StatusCancelled
	}
	return queue.StatusFailed
}

// IsInfrastructure reports whether an error belongs to the install/bootstrap
// family that should abort startup rather than fail a single job.
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrUnsupportedArch) ||
		errors.Is(err, ErrDownloadFailed) ||
		errors.Is(err, ErrInstallVerification) ||
		errors.Is(err, ErrSetupScript)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
