package cover_test

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"mapsmith/internal/cover"
)

func TestGenerateWritesDecodableJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maps", cover.FileName)
	if err := cover.Generate(path, "my song"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open cover: %v", err)
	}
	defer file.Close()

	img, err := jpeg.Decode(file)
	if err != nil {
		t.Fatalf("decode cover: %v", err)
	}
	want := image.Rect(0, 0, 500, 500)
	if img.Bounds() != want {
		t.Fatalf("unexpected bounds: got %v want %v", img.Bounds(), want)
	}
}

func TestGenerateKeepsBlocksInsideMargins(t *testing.T) {
	path := filepath.Join(t.TempDir(), cover.FileName)
	if err := cover.Generate(path, "x"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open cover: %v", err)
	}
	defer file.Close()
	img, err := jpeg.Decode(file)
	if err != nil {
		t.Fatalf("decode cover: %v", err)
	}

	// Pure red blocks survive JPEG compression as strongly red pixels.
	isRed := func(x, y int) bool {
		r, g, b, _ := img.At(x, y).RGBA()
		return r>>8 > 180 && g>>8 < 90 && b>>8 < 90
	}

	bounds := img.Bounds()
	found := false
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !isRed(x, y) {
				continue
			}
			found = true
			// Allow a little bleed from compression, but nothing should
			// reach the edge bands or the bottom title strip.
			if x < 40 || x >= 460 || y < 40 || y >= 440 {
				t.Fatalf("red block pixel outside margins at (%d,%d)", x, y)
			}
		}
	}
	if !found {
		t.Fatal("expected at least one red block pixel")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	if cover.Exists(dir) {
		t.Fatal("expected no cover in empty directory")
	}
	if err := cover.Generate(filepath.Join(dir, cover.FileName), "song"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !cover.Exists(dir) {
		t.Fatal("expected cover to be detected")
	}
}
