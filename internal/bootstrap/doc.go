// Package bootstrap prepares the numerical runtime with the library packages
// the analysis scripts need.
package bootstrap
