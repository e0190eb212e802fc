// Package testsupport provides shared fixtures for package tests: temp-dir
// configs, job stores, stubbed toolchains, and audio fixtures.
package testsupport
