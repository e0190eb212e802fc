package cover

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math/rand"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FileName is the cover asset name expected inside every generated map
// directory.
const FileName = "cover.jpg"

const (
	imageSize  = 500
	gridStep   = 50
	blockCount = 10
	blockMin   = 30
	blockMax   = 60
	titleY     = imageSize - 100

	// Blocks keep clear of the edges and of the title band at the bottom.
	blockMarginSide   = 50
	blockMarginBottom = 100
)

var (
	background = color.RGBA{A: 255}
	gridLine   = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	blockRed   = color.RGBA{R: 255, A: 255}
	blockBlue  = color.RGBA{B: 255, A: 255}
	shadow     = color.RGBA{A: 255}
	titleColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Generate writes a synthetic cover image to path: a dark grid background,
// randomly placed red and blue note blocks, and the song title with a drop
// shadow near the bottom edge.
func Generate(path, title string) error {
	img := image.NewRGBA(image.Rect(0, 0, imageSize, imageSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for pos := gridStep; pos < imageSize; pos += gridStep {
		drawRect(img, image.Rect(pos, 0, pos+1, imageSize), gridLine)
		drawRect(img, image.Rect(0, pos, imageSize, pos+1), gridLine)
	}

	for b := 0; b < blockCount; b++ {
		side := blockMin + rand.Intn(blockMax-blockMin+1)
		x := blockMarginSide + rand.Intn(imageSize-2*blockMarginSide-side)
		y := blockMarginSide + rand.Intn(imageSize-blockMarginSide-blockMarginBottom-side)
		tint := blockRed
		if b%2 == 1 {
			tint = blockBlue
		}
		drawRect(img, image.Rect(x, y, x+side, y+side), tint)
	}

	drawTitle(img, title)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cover directory: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cover file: %w", err)
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 90}); err != nil {
		_ = out.Close()
		return fmt.Errorf("encode cover: %w", err)
	}
	return out.Close()
}

// Exists reports whether dir already carries a cover asset.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil && !info.IsDir()
}

func drawRect(img *image.RGBA, rect image.Rectangle, tint color.RGBA) {
	draw.Draw(img, rect, image.NewUniform(tint), image.Point{}, draw.Src)
}

func drawTitle(img *image.RGBA, title string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, title).Ceil()
	x := (imageSize - width) / 2
	if x < 10 {
		x = 10
	}

	drawString(img, face, title, x+2, titleY+2, shadow)
	drawString(img, face, title, x, titleY, titleColor)
}

func drawString(img *image.RGBA, face font.Face, text string, x, y int, tint color.RGBA) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(tint),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}
