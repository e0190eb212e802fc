package install

import (
	"fmt"
	"strings"

	"mapsmith/internal/services"
)

const runtimeDownloadBase = "https://julialang-s3.julialang.org/bin"

// RuntimeDownloadURL returns the release artifact URL for the given runtime
// version on the given platform. Unsupported platform/architecture pairs fail
// fast with services.ErrUnsupportedArch.
func RuntimeDownloadURL(version, goos, goarch string) (string, error) {
	short := shortVersion(version)
	switch goos {
	case "windows":
		if goarch != "amd64" {
			return "", unsupported(goos, goarch)
		}
		return fmt.Sprintf("%s/winnt/x64/%s/julia-%s-win64.exe", runtimeDownloadBase, short, version), nil
	case "darwin":
		switch goarch {
		case "amd64":
			return fmt.Sprintf("%s/mac/x64/%s/julia-%s-mac64.dmg", runtimeDownloadBase, short, version), nil
		case "arm64":
			return fmt.Sprintf("%s/mac/aarch64/%s/julia-%s-macaarch64.dmg", runtimeDownloadBase, short, version), nil
		}
		return "", unsupported(goos, goarch)
	case "linux":
		switch goarch {
		case "amd64":
			return fmt.Sprintf("%s/linux/x64/%s/julia-%s-linux-x86_64.tar.gz", runtimeDownloadBase, short, version), nil
		case "arm64":
			return fmt.Sprintf("%s/linux/aarch64/%s/julia-%s-linux-aarch64.tar.gz", runtimeDownloadBase, short, version), nil
		}
		return "", unsupported(goos, goarch)
	}
	return "", unsupported(goos, goarch)
}

// MediaToolDownloadURL returns the media tool archive URL for the given
// platform. macOS has no supported unattended build; users are pointed at
// their package manager instead.
func MediaToolDownloadURL(goos, goarch string) (string, error) {
	switch goos {
	case "windows":
		if goarch != "amd64" {
			return "", unsupported(goos, goarch)
		}
		return "https://www.gyan.dev/ffmpeg/builds/ffmpeg-release-essentials.zip", nil
	case "linux":
		switch goarch {
		case "amd64":
			return "https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-amd64-static.tar.xz", nil
		case "arm64":
			return "https://johnvansickle.com/ffmpeg/releases/ffmpeg-release-arm64-static.tar.xz", nil
		}
		return "", unsupported(goos, goarch)
	case "darwin":
		return "", services.Wrap(services.ErrUnsupportedArch, "installer", "media-tool-url",
			"no unattended media tool build for macOS; install ffmpeg with your package manager (e.g. brew install ffmpeg)", nil)
	}
	return "", unsupported(goos, goarch)
}

func unsupported(goos, goarch string) error {
	return services.Wrap(services.ErrUnsupportedArch, "installer", "download-url",
		fmt.Sprintf("%s/%s", goos, goarch), nil)
}

// shortVersion trims a semantic version to major.minor, matching the release
// server's directory layout.
func shortVersion(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}
