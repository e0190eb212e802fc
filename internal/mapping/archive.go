package mapping

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ArchiveDirectory zips srcDir into zipPath with every member rooted under
// srcDir's own base name, preserving internal relative paths.
func ArchiveDirectory(srcDir, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	writer := zip.NewWriter(out)

	root := filepath.Base(srcDir)
	err = filepath.WalkDir(srcDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := root
		if rel != "." {
			name = root + "/" + filepath.ToSlash(rel)
		}

		if entry.IsDir() {
			_, err := writer.Create(name + "/")
			return err
		}

		member, err := writer.Create(name)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(member, file)
		file.Close()
		return err
	})
	if err != nil {
		_ = writer.Close()
		_ = out.Close()
		_ = os.Remove(zipPath)
		return fmt.Errorf("archive %s: %w", srcDir, err)
	}

	if err := writer.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(zipPath)
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(zipPath)
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}
