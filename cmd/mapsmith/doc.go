// Command mapsmith generates packaged rhythm-game levels from audio files,
// installing the required external tools on first use.
package main
