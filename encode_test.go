package tilelib

import (
	"image"
	"path/filepath"
	"testing"
)

func TestTileFileName(t *testing.T) {
	if n := TileFileName(TileElevation, 3, 12); n != "dsm_r003_c012.png" {
		t.Fatalf("got %s", n)
	}
	if n := TileFileName(TileColor, 0, 0); n != "satellite_r000_c000.png" {
		t.Fatalf("got %s", n)
	}
	if n := TileFileName(TileColor, 123, 7); n != "satellite_r123_c007.png" {
		t.Fatalf("got %s", n)
	}
}

func TestSaveElevationTilePNG(t *testing.T) {
	dir := t.TempDir()
	tile := &Tile{
		Kind:   TileElevation,
		Row:    1,
		Col:    2,
		Width:  2,
		Height: 2,
		Gray:   []uint16{0, 1000, 40000, 65535},
	}
	path, err := SaveTilePNG(tile, dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "dsm_r001_c002.png" {
		t.Fatalf("wrong path: %s", path)
	}
	img := decodeTile(t, path)
	g, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("not 16-bit grayscale: %T", img)
	}
	want := tile.Gray
	for i, y := 0, 0; y < 2; y++ {
		for x := 0; x < 2; x, i = x+1, i+1 {
			if v := g.Gray16At(x, y).Y; v != want[i] {
				t.Fatalf("pixel (%d,%d): got %d, want %d", x, y, v, want[i])
			}
		}
	}
}

func TestSaveColorTilePNG(t *testing.T) {
	dir := t.TempDir()
	tile := &Tile{
		Kind:   TileColor,
		Row:    0,
		Col:    5,
		Width:  2,
		Height: 1,
		RGB: [3][]byte{
			{10, 40},
			{20, 50},
			{30, 60},
		},
	}
	path, err := SaveTilePNG(tile, dir)
	if err != nil {
		t.Fatal(err)
	}
	img := decodeTile(t, path)
	checks := [][4]int{{0, 0, 10, 20}, {1, 0, 40, 50}}
	for _, c := range checks {
		r, g, b, a := img.At(c[0], c[1]).RGBA()
		if int(r>>8) != c[2] || int(g>>8) != c[3] || a>>8 != 0xff {
			t.Fatalf("pixel (%d,%d): got %d %d %d %d", c[0], c[1], r>>8, g>>8, b>>8, a>>8)
		}
	}
	// 波段次序固定为R,G,B
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Fatalf("band order wrong: %d %d %d", r>>8, g>>8, b>>8)
	}
}
