package mapping_test

import (
	"errors"
	"testing"

	"mapsmith/internal/mapping"
	"mapsmith/internal/services"
)

func TestNormalizeSelectionEmptyExpandsToFullSet(t *testing.T) {
	selection, err := mapping.NormalizeSelection(nil)
	if err != nil {
		t.Fatalf("NormalizeSelection: %v", err)
	}
	if len(selection) != 5 {
		t.Fatalf("expected full set, got %v", selection)
	}
	if selection[0] != mapping.DifficultyEasy || selection[4] != mapping.DifficultyExpertPlus {
		t.Fatalf("unexpected order: %v", selection)
	}
}

func TestNormalizeSelectionDeduplicatesAndOrders(t *testing.T) {
	selection, err := mapping.NormalizeSelection([]mapping.Difficulty{
		mapping.DifficultyExpert,
		mapping.DifficultyEasy,
		mapping.DifficultyExpert,
	})
	if err != nil {
		t.Fatalf("NormalizeSelection: %v", err)
	}
	want := []mapping.Difficulty{mapping.DifficultyEasy, mapping.DifficultyExpert}
	if len(selection) != len(want) {
		t.Fatalf("unexpected selection: %v", selection)
	}
	for i := range want {
		if selection[i] != want[i] {
			t.Fatalf("unexpected selection: %v", selection)
		}
	}
}

func TestNormalizeSelectionRejectsUnknownTier(t *testing.T) {
	_, err := mapping.NormalizeSelection([]mapping.Difficulty{"Nightmare"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestParseDifficultyCaseInsensitive(t *testing.T) {
	difficulty, err := mapping.ParseDifficulty("expertplus")
	if err != nil {
		t.Fatalf("ParseDifficulty: %v", err)
	}
	if difficulty != mapping.DifficultyExpertPlus {
		t.Fatalf("unexpected difficulty: %v", difficulty)
	}
}

func TestEncodeDecodeSelectionRoundTrip(t *testing.T) {
	original := []mapping.Difficulty{mapping.DifficultyNormal, mapping.DifficultyHard}
	encoded := mapping.EncodeSelection(original)
	if encoded != "Normal\nHard\n" {
		t.Fatalf("unexpected wire format: %q", encoded)
	}
	decoded, err := mapping.DecodeSelection(encoded)
	if err != nil {
		t.Fatalf("DecodeSelection: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != mapping.DifficultyNormal || decoded[1] != mapping.DifficultyHard {
		t.Fatalf("unexpected decode: %v", decoded)
	}
}
