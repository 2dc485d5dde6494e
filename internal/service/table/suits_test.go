package table

import "testing"

func TestSuitImageRasterizesAllSuits(t *testing.T) {
	for _, suit := range []byte{'h', 'd', 'c', 's'} {
		img, err := suitImage(suit, 24)
		if err != nil {
			t.Fatalf("suitImage(%c): %v", suit, err)
		}
		if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 24 {
			t.Fatalf("suitImage(%c) bounds = %v", suit, img.Bounds())
		}
	}
}

func TestSuitImageCachesBySuitAndSize(t *testing.T) {
	first, err := suitImage('h', 32)
	if err != nil {
		t.Fatalf("suitImage: %v", err)
	}
	second, err := suitImage('h', 32)
	if err != nil {
		t.Fatalf("suitImage cached: %v", err)
	}
	if first != second {
		t.Fatalf("expected the cached image for a repeated suit/size")
	}
	other, err := suitImage('h', 48)
	if err != nil {
		t.Fatalf("suitImage other size: %v", err)
	}
	if other == first {
		t.Fatalf("different sizes must not share cache entries")
	}
}

func TestSuitImageRejectsBadInput(t *testing.T) {
	if _, err := suitImage('x', 24); err == nil {
		t.Fatalf("expected error for unknown suit")
	}
	if _, err := suitImage('h', 0); err == nil {
		t.Fatalf("expected error for non-positive size")
	}
}
