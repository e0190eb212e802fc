package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mapsmith/internal/queue"
	"mapsmith/internal/services"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := services.Wrap(services.ErrDownloadFailed, "installer", "download", "fetching runtime", cause)

	if !errors.Is(err, services.ErrDownloadFailed) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to survive wrapping: %v", err)
	}
	for _, fragment := range []string{"installer", "download", "fetching runtime", "connection reset"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error text: %v", fragment, err)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrProbeNotFound, "deps", "locate", "julia", nil)
	if !errors.Is(err, services.ErrProbeNotFound) {
		t.Fatalf("expected marker: %v", err)
	}
}

func TestFailureStatusMapsContextErrorsToCancelled(t *testing.T) {
	if got := services.FailureStatus(context.Canceled); got != queue.StatusCancelled {
		t.Fatalf("expected cancelled for context.Canceled, got %v", got)
	}
	if got := services.FailureStatus(context.DeadlineExceeded); got != queue.StatusCancelled {
		t.Fatalf("expected cancelled for deadline, got %v", got)
	}
	wrapped := services.Wrap(services.ErrExternalProcess, "mapping", "invoke", "timed out", context.DeadlineExceeded)
	if got := services.FailureStatus(wrapped); got != queue.StatusCancelled {
		t.Fatalf("expected cancelled for wrapped deadline, got %v", got)
	}
	if got := services.FailureStatus(errors.New("boom")); got != queue.StatusFailed {
		t.Fatalf("expected failed for plain error, got %v", got)
	}
}

func TestIsInfrastructure(t *testing.T) {
	infra := []error{
		services.Wrap(services.ErrUnsupportedArch, "installer", "url", "plan9/386", nil),
		services.Wrap(services.ErrDownloadFailed, "installer", "download", "404", nil),
		services.Wrap(services.ErrInstallVerification, "installer", "verify", "bad exit", nil),
		services.Wrap(services.ErrSetupScript, "bootstrap", "setup", "exit 1", nil),
	}
	for _, err := range infra {
		if !services.IsInfrastructure(err) {
			t.Fatalf("expected infrastructure classification: %v", err)
		}
	}
	if services.IsInfrastructure(services.Wrap(services.ErrAmbiguousOutput, "mapping", "discover", "two matches", nil)) {
		t.Fatal("job-level failure misclassified as infrastructure")
	}
}

func TestJobIDContextRoundTrip(t *testing.T) {
	ctx := services.WithJobID(context.Background(), "job-123")
	id, ok := services.JobIDFromContext(ctx)
	if !ok || id != "job-123" {
		t.Fatalf("unexpected round trip: %q %v", id, ok)
	}
	if _, ok := services.JobIDFromContext(context.Background()); ok {
		t.Fatal("expected absent job id")
	}
}
