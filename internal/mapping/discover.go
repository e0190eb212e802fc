package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mapsmith/internal/services"
)

// DiscoverOutputDir locates the directory the analysis process produced for
// a job. The explicit output directory passed to the process is preferred;
// when the process ignored it, fall back to the naming convention
// `<opaque-prefix>_<song-base-name>` in its working directory. Exactly one
// convention match is required; zero or several is a failure even after a
// clean exit.
func DiscoverOutputDir(workDir, explicitDir, baseName string) (string, error) {
	if explicitDir != "" {
		if info, err := os.Stat(explicitDir); err == nil && info.IsDir() {
			if populated, err := dirPopulated(explicitDir); err == nil && populated {
				return explicitDir, nil
			}
		}
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		return "", services.Wrap(services.ErrAmbiguousOutput, "mapping", "discover", workDir, err)
	}

	suffix := "_" + baseName
	var matches []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), suffix) {
			matches = append(matches, filepath.Join(workDir, entry.Name()))
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", services.Wrap(services.ErrAmbiguousOutput, "mapping", "discover",
			fmt.Sprintf("no directory matching *%s in %s", suffix, workDir), nil)
	default:
		return "", services.Wrap(services.ErrAmbiguousOutput, "mapping", "discover",
			fmt.Sprintf("%d directories match *%s in %s", len(matches), suffix, workDir), nil)
	}
}

func dirPopulated(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}
