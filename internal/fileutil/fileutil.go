package fileutil

import (
	"io"
	"os"
)

// CopyFileExcl streams src to dst but fails if dst already exists. Callers
// use this to claim a work-area name so two jobs for the same source cannot
// trample each other's scratch files.
func CopyFileExcl(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
