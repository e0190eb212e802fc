// Package services provides shared error classification and context plumbing
// used across the bootstrap and job orchestration components.
package services
