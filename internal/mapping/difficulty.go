package mapping

import (
	"strings"

	"mapsmith/internal/services"
)

// Difficulty is one output complexity tier of a generated map.
type Difficulty string

const (
	DifficultyEasy       Difficulty = "Easy"
	DifficultyNormal     Difficulty = "Normal"
	DifficultyHard       Difficulty = "Hard"
	DifficultyExpert     Difficulty = "Expert"
	DifficultyExpertPlus Difficulty = "ExpertPlus"
)

// AllDifficulties returns the fixed five-tier enumeration in canonical order.
func AllDifficulties() []Difficulty {
	return []Difficulty{
		DifficultyEasy,
		DifficultyNormal,
		DifficultyHard,
		DifficultyExpert,
		DifficultyExpertPlus,
	}
}

// ParseDifficulty converts a string into a known tier, case-insensitively.
func ParseDifficulty(value string) (Difficulty, error) {
	trimmed := strings.TrimSpace(value)
	for _, difficulty := range AllDifficulties() {
		if strings.EqualFold(trimmed, string(difficulty)) {
			return difficulty, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "mapping", "parse-difficulty", value, nil)
}

// NormalizeSelection validates a difficulty selection. An empty selection
// expands to the full set; duplicates collapse; order is canonical.
func NormalizeSelection(selected []Difficulty) ([]Difficulty, error) {
	if len(selected) == 0 {
		return AllDifficulties(), nil
	}
	chosen := make(map[Difficulty]struct{}, len(selected))
	for _, value := range selected {
		difficulty, err := ParseDifficulty(string(value))
		if err != nil {
			return nil, err
		}
		chosen[difficulty] = struct{}{}
	}
	normalized := make([]Difficulty, 0, len(chosen))
	for _, difficulty := range AllDifficulties() {
		if _, ok := chosen[difficulty]; ok {
			normalized = append(normalized, difficulty)
		}
	}
	return normalized, nil
}

// EncodeSelection renders a selection in the newline-delimited wire format
// the analysis process consumes.
func EncodeSelection(selection []Difficulty) string {
	var sb strings.Builder
	for _, difficulty := range selection {
		sb.WriteString(string(difficulty))
		sb.WriteString("\n")
	}
	return sb.String()
}

// DecodeSelection parses the newline-delimited wire format back into a
// selection, skipping blank lines.
func DecodeSelection(encoded string) ([]Difficulty, error) {
	var selection []Difficulty
	for _, line := range strings.Split(encoded, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		difficulty, err := ParseDifficulty(line)
		if err != nil {
			return nil, err
		}
		selection = append(selection, difficulty)
	}
	return NormalizeSelection(selection)
}
