// Package deps probes the host for the external tools required to generate
// maps and reports their availability.
package deps
