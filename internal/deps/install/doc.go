// Package install downloads and installs the runtime and media tool when
// the environment probe cannot find them, with per-platform install
// strategies and a process-wide resolver that runs at most once.
package install
