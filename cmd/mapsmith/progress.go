package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"mapsmith/internal/progress"
)

const progressResolution = 1000

// newProgressSink renders progress on an interactive terminal and stays
// silent otherwise. Progress still flows to the structured log either way.
func newProgressSink() progress.Sink {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}

	var bar *progressbar.ProgressBar
	return func(fraction float64, message string) error {
		if bar == nil {
			bar = progressbar.NewOptions(progressResolution,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription(message),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionShowCount(),
			)
		}
		bar.Describe(message)
		if fraction == progress.Indeterminate {
			return bar.Add(0)
		}
		return bar.Set(int(fraction * progressResolution))
	}
}
