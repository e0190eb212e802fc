package install

import (
	"context"
	"os/exec"
	"strings"

	"mapsmith/internal/services"
)

// installRuntimeWindows runs the downloaded installer executable
// unattended. The installer registers the runtime on PATH itself, so the
// follow-up probe picks it up.
func (i *Installer) installRuntimeWindows(ctx context.Context, installerPath string) error {
	cmd := exec.CommandContext(ctx, installerPath, "/VERYSILENT", "/NORESTART")
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = installerPath
		}
		return services.Wrap(services.ErrInstallVerification, "installer", "run-installer", detail, err)
	}
	return nil
}

// installMediaToolWindows extracts the media tool build archive into the
// configured install directory.
func (i *Installer) installMediaToolWindows(archivePath string) error {
	dir := i.cfg.MediaTool.InstallDir
	if err := extractZip(archivePath, dir); err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "extract-media-tool", dir, err)
	}
	return nil
}
