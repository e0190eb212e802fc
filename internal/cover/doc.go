// Package cover synthesizes a fallback cover image for generated map
// directories that ship without one.
package cover
