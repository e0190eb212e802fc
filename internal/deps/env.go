package deps

import "os"

const (
	// EnvMediaToolOnPath is set by an external launcher that has already
	// placed the media tool on PATH before this process started.
	EnvMediaToolOnPath = "FFMPEG_ADDED_TO_PATH"

	// EnvBootstrapped guards against a duplicate self-restart after a
	// first-run dependency installation.
	EnvBootstrapped = "BEATSABER_APP_STARTED"
)

// MediaToolPreinstalled reports whether a launcher outside this process has
// already arranged for the media tool to be reachable on PATH.
func MediaToolPreinstalled() bool {
	return os.Getenv(EnvMediaToolOnPath) == "true"
}

// AlreadyBootstrapped reports whether this process was restarted after a
// first-run installation and must not trigger another one.
func AlreadyBootstrapped() bool {
	return os.Getenv(EnvBootstrapped) == "1"
}

// MarkBootstrapped records the restart guard in the process environment so
// child processes inherit it.
func MarkBootstrapped() {
	_ = os.Setenv(EnvBootstrapped, "1")
}
