package install

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mapsmith/internal/deps"
	"mapsmith/internal/logging"
	"mapsmith/internal/services"
)

// installRuntimeDarwin mounts the downloaded disk image, copies the
// application bundle into /Applications, and links the inner binary into
// /usr/local/bin. The image is always detached, even when the copy fails.
func (i *Installer) installRuntimeDarwin(ctx context.Context, imagePath string) error {
	mountDir, err := os.MkdirTemp("", "mapsmith-dmg-")
	if err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "mount-image", "create mountpoint", err)
	}
	defer os.RemoveAll(mountDir)

	if err := runQuiet(ctx, "hdiutil", "attach", imagePath, "-mountpoint", mountDir, "-nobrowse", "-quiet"); err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "mount-image", imagePath, err)
	}
	defer func() {
		if err := runQuiet(context.Background(), "hdiutil", "detach", mountDir, "-quiet"); err != nil {
			i.logger.Warn("disk image detach failed", logging.String("mount", mountDir), logging.Error(err))
		}
	}()

	bundle, err := findAppBundle(mountDir)
	if err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "mount-image", "no application bundle in image", err)
	}

	installed := filepath.Join("/Applications", filepath.Base(bundle))
	if err := runQuiet(ctx, "cp", "-R", bundle, installed); err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "copy-bundle", installed, err)
	}

	name := deps.ExecutableName(i.cfg.RuntimeBinary())
	binary, err := findBinary(installed, name)
	if err != nil {
		return services.Wrap(services.ErrInstallVerification, "installer", "copy-bundle", "bundle missing runtime binary", err)
	}

	linkPath := filepath.Join("/usr/local/bin", name)
	_ = os.Remove(linkPath)
	if err := os.Symlink(binary, linkPath); err != nil {
		// /usr/local/bin may not be writable; fall back to the user's bin.
		linkPath, err = linkIntoLocalBin(binary, name)
		if err != nil {
			return services.Wrap(services.ErrInstallVerification, "installer", "link-runtime", linkPath, err)
		}
	}
	deps.AppendToPath(filepath.Dir(linkPath))
	return nil
}

func findAppBundle(mountDir string) (string, error) {
	entries, err := os.ReadDir(mountDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasSuffix(entry.Name(), ".app") {
			return filepath.Join(mountDir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no .app directory in %s", mountDir)
}

func runQuiet(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return err
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	return nil
}
