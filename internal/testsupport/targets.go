package testsupport

import (
	"runtime"

	"mapsmith/internal/deps"
)

func installTarget(tool, path string) deps.Target {
	return deps.Target{
		Tool:     tool,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Path:     path,
		Verified: true,
	}
}
