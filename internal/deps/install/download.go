package install

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"

	"mapsmith/internal/logging"
	"mapsmith/internal/services"
)

// downloadChunkSize is the fixed read size used while streaming release
// artifacts, chosen so progress events stay frequent on slow links.
const downloadChunkSize = 8192

// download streams url into a temp file, reporting fractional progress when
// the server advertises a length and indeterminate progress otherwise. The
// partial temp file is removed on any error.
func (i *Installer) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", services.Wrap(services.ErrDownloadFailed, "installer", "download", url, err)
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrDownloadFailed, "installer", "download", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrDownloadFailed, "installer", "download",
			fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, url), nil)
	}

	out, err := os.CreateTemp("", "mapsmith-*"+downloadSuffix(url))
	if err != nil {
		return "", services.Wrap(services.ErrDownloadFailed, "installer", "download", "create temp file", err)
	}
	tempPath := out.Name()

	cleanup := func() {
		_ = out.Close()
		_ = os.Remove(tempPath)
	}

	total := resp.ContentLength
	var written int64
	buf := make([]byte, downloadChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			cleanup()
			return "", services.Wrap(services.ErrDownloadFailed, "installer", "download", "cancelled", err)
		}
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				cleanup()
				return "", services.Wrap(services.ErrDownloadFailed, "installer", "download", "write temp file", writeErr)
			}
			written += int64(n)
			if total > 0 {
				i.reporter.Report(float64(written)/float64(total), "downloading")
			} else {
				i.reporter.Indeterminate("downloading")
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			cleanup()
			return "", services.Wrap(services.ErrDownloadFailed, "installer", "download", "read response", readErr)
		}
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", services.Wrap(services.ErrDownloadFailed, "installer", "download", "close temp file", err)
	}

	i.logger.Info("download complete",
		logging.String("url", url),
		logging.Int64("bytes", written))
	return tempPath, nil
}

// downloadSuffix preserves the artifact extension on the temp file so
// platform installers that care about file naming still work.
func downloadSuffix(url string) string {
	base := path.Base(url)
	for _, suffix := range []string{".tar.gz", ".tar.xz"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return suffix
		}
	}
	return path.Ext(base)
}
