package mapping

import "strings"

// ClassificationRule maps a set of stderr substrings to a remediation hint.
// All patterns must appear for the rule to fire.
type ClassificationRule struct {
	Patterns []string
	Hint     string
}

// classificationRules is evaluated top to bottom; the first rule whose
// patterns all match wins. Extend by appending rules, not by branching in
// code.
var classificationRules = []ClassificationRule{
	{
		Patterns: []string{"WAV", "not found"},
		Hint:     "the runtime is missing the WAV package; run `mapsmith setup` to reinstall runtime packages",
	},
	{
		Patterns: []string{"adelay"},
		Hint:     "the installed media tool does not support the adelay filter this version needs; upgrade ffmpeg",
	},
	{
		Patterns: []string{"no such file or directory", "ffmpeg"},
		Hint:     "the media tool could not be found by the analysis process; run `mapsmith setup` or install ffmpeg on PATH",
	},
}

// ClassifyStderr scans captured stderr against the ordered rule table and
// returns a remediation hint for the first matching rule.
func ClassifyStderr(stderr string) (string, bool) {
	lowered := strings.ToLower(stderr)
	for _, rule := range classificationRules {
		matched := true
		for _, pattern := range rule.Patterns {
			if !strings.Contains(lowered, strings.ToLower(pattern)) {
				matched = false
				break
			}
		}
		if matched {
			return rule.Hint, true
		}
	}
	return "", false
}
