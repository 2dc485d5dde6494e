package table

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font
	fontErr    error

	faceMu    sync.Mutex
	faceCache = map[float64]font.Face{}
)

func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			fontErr = fmt.Errorf("parse builtin font: %w", err)
			return
		}
		parsedFont = f
	})
	return parsedFont, fontErr
}

func faceAt(size float64) (font.Face, error) {
	f, err := loadFont()
	if err != nil {
		return nil, err
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faceCache[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build %.0fpt face: %w", size, err)
	}
	faceCache[size] = face
	return face, nil
}

func captionFace() (font.Face, error) { return faceAt(14) }
func titleFace() (font.Face, error)   { return faceAt(21) }
func cardFace() (font.Face, error)    { return faceAt(18) }
