// Package progress fans progress events from long operations out to a
// UI-facing sink while guaranteeing sink failures never abort the operation.
package progress
