// Package mapping orchestrates map generation jobs: it isolates the input
// audio, invokes the external analysis process, classifies its outcome,
// discovers and packages the generated maps, and cleans up afterwards.
package mapping
