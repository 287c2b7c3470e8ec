package tilelib

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	gdal "github.com/airbusgeo/godal"
)

func TestCompositeBandLaterWins(t *testing.T) {
	nodata := -9999.0
	dst := []float64{nodata, 1, 2, nodata}
	src := []float64{5, nodata, 6, nodata}
	compositeBand(dst, src, nodata)
	want := []float64{5, 1, 6, nodata}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("pixel %d: got %f, want %f", i, dst[i], want[i])
		}
	}
}

func TestCompositeBandNaNNoData(t *testing.T) {
	nan := math.NaN()
	dst := []float64{1, 2}
	compositeBand(dst, []float64{nan, 7}, nan)
	if dst[0] != 1 || dst[1] != 7 {
		t.Fatalf("got %v", dst)
	}
}

func TestForEachBlockPartition(t *testing.T) {
	const width, height, size = 1030, 2050, 1024
	covered := make([]bool, width*height)
	n := 0
	err := forEachBlock(width, height, size, func(b blockWindow) error {
		n++
		if b.w <= 0 || b.h <= 0 || b.w > size || b.h > size {
			t.Fatalf("bad block size: %+v", b)
		}
		for y := b.y; y < b.y+b.h; y++ {
			for x := b.x; x < b.x+b.w; x++ {
				if covered[y*width+x] {
					t.Fatalf("pixel (%d,%d) covered twice", x, y)
				}
				covered[y*width+x] = true
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != countBlocks(width, height, size) {
		t.Fatalf("block count mismatch: %d != %d", n, countBlocks(width, height, size))
	}
	for i, c := range covered {
		if !c {
			t.Fatalf("pixel %d never covered", i)
		}
	}
}

func createTestTif(t *testing.T, path string, w, h, bands int, gt GeoTransform, epsg int, nodata float64, value float64) {
	t.Helper()
	ds, err := gdal.Create(gdal.GTiff, path, bands, gdal.Float32, w, h)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err = ds.Close(); err != nil {
			t.Fatal(err)
		}
	}()
	if err = ds.SetGeoTransform(gt); err != nil {
		t.Fatal(err)
	}
	sr, err := gdal.NewSpatialRefFromEPSG(epsg)
	if err != nil {
		t.Fatal(err)
	}
	err = ds.SetSpatialRef(sr)
	sr.Close()
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float64, w*h)
	for i := range buf {
		buf[i] = value
	}
	for _, b := range ds.Bands() {
		if err = b.SetNoData(nodata); err != nil {
			t.Fatal(err)
		}
		if err = b.IO(gdal.IOWrite, 0, 0, buf, w, h); err != nil {
			t.Fatal(err)
		}
	}
}

// 两张100×100高程片，第二张右移50像素，重叠50列，分辨率均为1.0。
// 合并结果应为150×100，重叠区取后一张的值
func TestMergeOverlapScenario(t *testing.T) {
	tb := NewTileToolbox(t.TempDir())
	dir := t.TempDir()
	tif1 := filepath.Join(dir, "a.tif")
	tif2 := filepath.Join(dir, "b.tif")
	createTestTif(t, tif1, 100, 100, 1, GeoTransform{0, 1, 0, 100, 0, -1}, 32633, -9999, 10)
	createTestTif(t, tif2, 100, 100, 1, GeoTransform{50, 1, 0, 100, 0, -1}, 32633, -9999, 20)

	out := filepath.Join(dir, "merged.tif")
	ret, err := tb.MergeRasters([]string{tif1, tif2}, out, MergeOptions{
		Bands:      1,
		Resampling: ResampleNearest,
	})
	if err != nil {
		t.Fatal(err)
	}
	if ret != out {
		t.Fatalf("wrong output path: %s", ret)
	}

	ds, err := gdal.Open(out, gdal.RasterOnly())
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	st := ds.Structure()
	if st.SizeX != 150 || st.SizeY != 100 {
		t.Fatalf("merged size wrong: %dx%d", st.SizeX, st.SizeY)
	}
	row := make([]float64, 150)
	if err = ds.Bands()[0].IO(gdal.IORead, 0, 50, row, 150, 1); err != nil {
		t.Fatal(err)
	}
	for x, v := range row {
		want := 10.0
		if x >= 50 {
			want = 20.0 // 后一张覆盖
		}
		if v != want {
			t.Fatalf("col %d: got %f, want %f", x, v, want)
		}
	}
}

// 两张互不重叠的100×100片，中间留150像素空档。各片区域保持自身的值，
// 空档保持nodata，互相不得渗色
func TestMergeDisjointInputs(t *testing.T) {
	tb := NewTileToolbox(t.TempDir())
	dir := t.TempDir()
	tif1 := filepath.Join(dir, "a.tif")
	tif2 := filepath.Join(dir, "b.tif")
	createTestTif(t, tif1, 100, 100, 1, GeoTransform{0, 1, 0, 100, 0, -1}, 32633, -9999, 10)
	createTestTif(t, tif2, 100, 100, 1, GeoTransform{250, 1, 0, 100, 0, -1}, 32633, -9999, 20)

	out := filepath.Join(dir, "merged.tif")
	if _, err := tb.MergeRasters([]string{tif1, tif2}, out, MergeOptions{
		Bands:      1,
		Resampling: ResampleNearest,
	}); err != nil {
		t.Fatal(err)
	}

	ds, err := gdal.Open(out, gdal.RasterOnly())
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	st := ds.Structure()
	if st.SizeX != 350 || st.SizeY != 100 {
		t.Fatalf("merged size wrong: %dx%d", st.SizeX, st.SizeY)
	}
	row := make([]float64, 350)
	if err = ds.Bands()[0].IO(gdal.IORead, 0, 30, row, 350, 1); err != nil {
		t.Fatal(err)
	}
	for x, v := range row {
		want := -9999.0
		switch {
		case x < 100:
			want = 10
		case x >= 250:
			want = 20
		}
		if v != want {
			t.Fatalf("col %d: got %f, want %f", x, v, want)
		}
	}
}

func TestMergeNoInput(t *testing.T) {
	tb := NewTileToolbox()
	if _, err := tb.MergeRasters(nil, "out.tif", MergeOptions{}); !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestMergeBandCountMismatch(t *testing.T) {
	tb := NewTileToolbox(t.TempDir())
	dir := t.TempDir()
	tif := filepath.Join(dir, "single.tif")
	createTestTif(t, tif, 10, 10, 1, GeoTransform{0, 1, 0, 10, 0, -1}, 32633, -9999, 1)
	_, err := tb.MergeRasters([]string{tif}, filepath.Join(dir, "out.tif"), MergeOptions{Bands: 3})
	if !errors.Is(err, ErrBandCountMismatch) {
		t.Fatalf("expected ErrBandCountMismatch, got %v", err)
	}
}
