package install

import (
	"fmt"
	"os"
	"path/filepath"

	"mapsmith/internal/deps"
	"mapsmith/internal/logging"
	"mapsmith/internal/services"
)

// installRuntimeLinux unpacks the runtime tarball under the configured
// install root, links the binary into ~/.local/bin, and appends a PATH export
// to the user's shell profile on a best-effort basis.
func (i *Installer) installRuntimeLinux(archivePath string) error {
	root := i.cfg.Runtime.InstallRoot
	if err := extractTarGz(archivePath, root); err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "extract-runtime", root, err)
	}

	binary, err := findBinary(root, deps.ExecutableName(i.cfg.RuntimeBinary()))
	if err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "extract-runtime", "runtime binary missing from archive", err)
	}

	linkPath, err := linkIntoLocalBin(binary, deps.ExecutableName(i.cfg.RuntimeBinary()))
	if err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "link-runtime", linkPath, err)
	}
	deps.AppendToPath(filepath.Dir(linkPath))
	i.appendProfileExport(filepath.Dir(linkPath))
	return nil
}

// installMediaToolLinux unpacks the static media tool build under the
// configured install directory and links the binary into ~/.local/bin.
func (i *Installer) installMediaToolLinux(archivePath string) error {
	dir := i.cfg.MediaTool.InstallDir
	if err := extractTarXz(archivePath, dir); err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "extract-media-tool", dir, err)
	}

	binary, err := findBinary(dir, deps.ExecutableName(i.cfg.MediaToolBinary()))
	if err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "extract-media-tool", "media tool binary missing from archive", err)
	}

	linkPath, err := linkIntoLocalBin(binary, deps.ExecutableName(i.cfg.MediaToolBinary()))
	if err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "link-media-tool", linkPath, err)
	}
	deps.AppendToPath(filepath.Dir(linkPath))
	return nil
}

func linkIntoLocalBin(binary, name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	binDir := filepath.Join(home, ".local", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", binDir, err)
	}
	linkPath := filepath.Join(binDir, name)
	_ = os.Remove(linkPath)
	if err := os.Symlink(binary, linkPath); err != nil {
		return linkPath, fmt.Errorf("link %s: %w", linkPath, err)
	}
	return linkPath, nil
}

// appendProfileExport adds a PATH export for binDir to the user's shell
// profile. Missing profile files are not an error; new shells just will not
// inherit the location automatically.
func (i *Installer) appendProfileExport(binDir string) {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	line := fmt.Sprintf("\nexport PATH=\"%s:$PATH\"\n", binDir)
	for _, profile := range []string{".profile", ".bashrc"} {
		path := filepath.Join(home, profile)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			i.logger.Warn("skipping shell profile update", logging.String("path", path), logging.Error(err))
			continue
		}
		if _, err := file.WriteString(line); err != nil {
			i.logger.Warn("shell profile update failed", logging.String("path", path), logging.Error(err))
		}
		_ = file.Close()
		return
	}
}
