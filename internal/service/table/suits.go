package table

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/suits/*.svg
var suitFiles embed.FS

type suitCacheKey struct {
	suit byte
	size int
}

var (
	suitCache   = map[suitCacheKey]image.Image{}
	suitCacheMu sync.RWMutex
)

// suitImage rasterizes the suit glyph at the requested pixel size. Results
// are cached; the returned image is shared and must not be mutated.
func suitImage(suit byte, size int) (image.Image, error) {
	if size <= 0 {
		return nil, fmt.Errorf("suit size must be positive, got %d", size)
	}
	key := suitCacheKey{suit: suit, size: size}

	suitCacheMu.RLock()
	if img, ok := suitCache[key]; ok {
		suitCacheMu.RUnlock()
		return img, nil
	}
	suitCacheMu.RUnlock()

	name, err := suitAssetName(suit)
	if err != nil {
		return nil, err
	}
	data, err := suitFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read suit asset %s: %w", name, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse suit svg: %w", err)
	}

	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	suitCacheMu.Lock()
	suitCache[key] = img
	suitCacheMu.Unlock()

	return img, nil
}

func suitAssetName(suit byte) (string, error) {
	switch suit {
	case 'h':
		return "assets/suits/heart.svg", nil
	case 'd':
		return "assets/suits/diamond.svg", nil
	case 'c':
		return "assets/suits/club.svg", nil
	case 's':
		return "assets/suits/spade.svg", nil
	}
	return "", fmt.Errorf("unknown suit %q", string(suit))
}

// sanitizeSVG patches the style quirks oksvg rejects in hand-exported
// assets.
func sanitizeSVG(svg []byte) []byte {
	fixed := bytes.ReplaceAll(svg, []byte("fill: #"), []byte("fill:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stroke: #"), []byte("stroke:#"))
	fixed = bytes.ReplaceAll(fixed, []byte("stop-color: #"), []byte("stop-color:#"))
	return fixed
}
