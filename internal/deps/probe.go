package deps

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"mapsmith/internal/services"
)

// Target describes a resolved external tool.
type Target struct {
	Tool     string
	OS       string
	Arch     string
	Path     string
	Verified bool
}

// Locate searches the host for the named tool. Search order: every PATH
// directory, the current working directory, a local ./<tool> directory (bare
// and under bin/), then the well-known per-OS install locations. When a match
// is found outside PATH its directory is appended to the process PATH so
// child processes inherit the location.
func Locate(tool string) (string, bool) {
	name := ExecutableName(tool)

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		if path, ok := executableAt(filepath.Join(dir, name)); ok {
			return path, true
		}
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates,
			filepath.Join(cwd, name),
			filepath.Join(cwd, tool, name),
			filepath.Join(cwd, tool, "bin", name),
		)
	}
	candidates = append(candidates, wellKnownLocations(tool)...)

	for _, candidate := range candidates {
		path, ok := executableAt(candidate)
		if !ok {
			continue
		}
		AppendToPath(filepath.Dir(path))
		return path, true
	}
	return "", false
}

// Verify runs the tool's version probe and reports whether the binary at
// path responds.
func Verify(ctx context.Context, path, tool string) error {
	cmd := exec.CommandContext(ctx, path, versionArgs(tool)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		return services.Wrap(services.ErrInstallVerification, "deps", "verify", detail, err)
	}
	return nil
}

// Resolve locates and version-probes the named tool, producing a verified
// Target. Absence is reported via services.ErrProbeNotFound so callers can
// fall back to the installer.
func Resolve(ctx context.Context, tool string) (Target, error) {
	target := Target{Tool: tool, OS: runtime.GOOS, Arch: runtime.GOARCH}
	path, ok := Locate(tool)
	if !ok {
		return target, services.Wrap(services.ErrProbeNotFound, "deps", "locate", tool, nil)
	}
	target.Path = path
	if err := Verify(ctx, path, tool); err != nil {
		return target, err
	}
	target.Verified = true
	return target, nil
}

// ExecutableName returns the OS-appropriate executable file name for tool.
func ExecutableName(tool string) string {
	if runtime.GOOS == "windows" {
		return tool + ".exe"
	}
	return tool
}

func versionArgs(tool string) []string {
	if tool == "ffmpeg" {
		return []string{"-version"}
	}
	return []string{"--version"}
}

func executableAt(path string) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	if !isExecutable(info) {
		return "", false
	}
	return path, true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

func wellKnownLocations(tool string) []string {
	name := ExecutableName(tool)
	home, _ := os.UserHomeDir()

	var dirs []string
	switch runtime.GOOS {
	case "windows":
		if home != "" {
			dirs = append(dirs,
				filepath.Join(home, "AppData", "Local", tool, "bin"),
				filepath.Join(home, tool, "bin"),
			)
		}
		dirs = append(dirs,
			filepath.Join(`C:\Program Files`, tool, "bin"),
			filepath.Join(`C:\`, tool, "bin"),
		)
	case "darwin":
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "bin"))
		}
		dirs = append(dirs, "/usr/local/bin", "/opt/homebrew/bin", "/opt/local/bin")
	default:
		if home != "" {
			dirs = append(dirs,
				filepath.Join(home, ".local", "bin"),
				filepath.Join(home, ".local", "share", "mapsmith", tool, "bin"),
				filepath.Join(home, tool, "bin"),
			)
		}
		dirs = append(dirs, "/usr/local/bin", "/usr/bin", filepath.Join("/opt", tool, "bin"))
	}

	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

// AppendToPath adds dir to the process PATH unless already present, so
// spawned child processes can resolve tools found outside PATH.
func AppendToPath(dir string) {
	if dir == "" {
		return
	}
	current := os.Getenv("PATH")
	for _, existing := range filepath.SplitList(current) {
		if existing == dir {
			return
		}
	}
	if current == "" {
		_ = os.Setenv("PATH", dir)
		return
	}
	_ = os.Setenv("PATH", current+string(filepath.ListSeparator)+dir)
}
