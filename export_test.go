package tilelib

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestExportTextureGray(t *testing.T) {
	tb := NewTileToolbox(t.TempDir())
	dir := t.TempDir()
	tif := filepath.Join(dir, "dsm.tif")
	createTestTif(t, tif, 8, 10, 1, GeoTransform{0, 1, 0, 10, 0, -1}, 32633, -9999, 77)

	out := filepath.Join(dir, "dsm.png")
	// 块高3，10行需跨4个块
	if err := tb.ExportTexturePNG(tif, out, 3); err != nil {
		t.Fatal(err)
	}
	img := decodeTile(t, out)
	g, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("not 8-bit grayscale: %T", img)
	}
	if b := g.Bounds(); b.Dx() != 8 || b.Dy() != 10 {
		t.Fatalf("wrong size: %v", b)
	}
	for _, c := range [][2]int{{0, 0}, {7, 9}, {3, 5}} {
		if v := g.GrayAt(c[0], c[1]).Y; v != 77 {
			t.Fatalf("pixel %v: got %d, want 77", c, v)
		}
	}
}

func TestExportTextureRGB(t *testing.T) {
	tb := NewTileToolbox(t.TempDir())
	dir := t.TempDir()
	tif := filepath.Join(dir, "sat.tif")
	createTestTif(t, tif, 6, 10, 3, GeoTransform{0, 1, 0, 10, 0, -1}, 32633, 0, 25)

	out := filepath.Join(dir, "sat.png")
	if err := tb.ExportTexturePNG(tif, out, 4); err != nil {
		t.Fatal(err)
	}
	img := decodeTile(t, out)
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 10 {
		t.Fatalf("wrong size: %v", b)
	}
	for _, c := range [][2]int{{0, 0}, {5, 9}, {2, 7}} {
		r, g, b, a := img.At(c[0], c[1]).RGBA()
		if r>>8 != 25 || g>>8 != 25 || b>>8 != 25 || a>>8 != 0xff {
			t.Fatalf("pixel %v: got %d %d %d %d", c, r>>8, g>>8, b>>8, a>>8)
		}
	}
}

func TestExportTextureUnsupportedBands(t *testing.T) {
	tb := NewTileToolbox(t.TempDir())
	dir := t.TempDir()
	tif := filepath.Join(dir, "two.tif")
	createTestTif(t, tif, 4, 4, 2, GeoTransform{0, 1, 0, 4, 0, -1}, 32633, 0, 1)

	out := filepath.Join(dir, "two.png")
	if err := tb.ExportTexturePNG(tif, out, 0); !errors.Is(err, ErrUnsupportedBandNum) {
		t.Fatalf("expected ErrUnsupportedBandNum, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("no output must be produced for unsupported band count")
	}
}
