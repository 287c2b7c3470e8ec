package tilelib

import (
	"math"
	"os"

	"github.com/wgdzlh/tilelib/log"

	gdal "github.com/airbusgeo/godal"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// 地理单元在某张栅格自身像素网格中的窗口。
// 两端均向下取整，单元k的终点即单元k+1的起点，
// 相邻单元不重叠且合起来铺满交集范围
func cellWindow(gt GeoTransform, left, top, right, bottom float64) blockWindow {
	px0, py0 := worldToPixel(gt, left, top)
	px1, py1 := worldToPixel(gt, right, bottom)
	x0 := int(math.Floor(px0))
	y0 := int(math.Floor(py0))
	w := int(math.Floor(px1)) - x0
	h := int(math.Floor(py1)) - y0
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return blockWindow{x: x0, y: y0, w: w, h: h}
}

// 从全局重采样缓冲中裁出窗口，越界部分置0（裁剪而非重采样）
func cropScaled(s *ScaledElevation, win blockWindow) []uint16 {
	out := make([]uint16, win.w*win.h)
	x0 := max(win.x, 0)
	x1 := min(win.x+win.w, s.Width)
	if x0 >= x1 {
		return out
	}
	for r := 0; r < win.h; r++ {
		sy := win.y + r
		if sy < 0 || sy >= s.Height {
			continue
		}
		copy(out[r*win.w+(x0-win.x):], s.Pix[sy*s.Width+x0:sy*s.Width+x1])
	}
	return out
}

// 影像nodata映射为越界填充值，超出字节范围或非有限时回落到0
func colorFill(nodata float64, hasNoData bool) byte {
	if hasNoData && nodata >= 0 && nodata <= 255 {
		return byte(nodata)
	}
	return 0
}

// 无界读取：窗口可越过栅格实际范围，越界区域以fill填充（边缘单元需要）
func readBandWindowBoundless(band gdal.Band, win blockWindow, bandW, bandH int, fill byte) ([]byte, error) {
	out := make([]byte, win.w*win.h)
	if fill != 0 {
		for i := range out {
			out[i] = fill
		}
	}
	x0 := max(win.x, 0)
	y0 := max(win.y, 0)
	x1 := min(win.x+win.w, bandW)
	y1 := min(win.y+win.h, bandH)
	if x0 >= x1 || y0 >= y1 {
		return out, nil
	}
	ow, oh := x1-x0, y1-y0
	tight := make([]byte, ow*oh)
	if err := band.IO(gdal.IORead, x0, y0, tight, ow, oh); err != nil {
		return nil, err
	}
	for r := 0; r < oh; r++ {
		dr := y0 - win.y + r
		copy(out[dr*win.w+(x0-win.x):dr*win.w+(x0-win.x)+ow], tight[r*ow:(r+1)*ow])
	}
	return out, nil
}

// 把已合并的高程与影像镶嵌图按nRows×nCols地理网格切为成对PNG分块。
// 两图必须同坐标系；网格划分基于两者范围的交集，行0在地理上方。
// 高程块裁自全局重采样缓冲，影像块按无界读取取自影像镶嵌图。
func (t *TileToolbox) GenerateChunks(elevTif, colorTif, outDir string, nRows, nCols int, opts ChunkOptions) (err error) {
	if nRows < 1 || nCols < 1 {
		return ErrBadGrid
	}
	elevDs, err := t.openRaster(elevTif)
	if err != nil {
		return
	}
	defer elevDs.Close()
	colorDs, err := t.openRaster(colorTif)
	if err != nil {
		return
	}
	defer colorDs.Close()

	elevSr, colorSr := elevDs.SpatialRef(), colorDs.SpatialRef()
	if (elevSr == nil) != (colorSr == nil) || (elevSr != nil && !elevSr.IsSame(colorSr)) {
		log.Error(t.logTag+"crs mismatch between rasters", zap.String("elev", elevTif), zap.String("color", colorTif))
		return ErrCRSMismatch
	}
	elevInfo, err := t.readRasterInfo(elevDs, elevTif)
	if err != nil {
		return
	}
	colorInfo, err := t.readRasterInfo(colorDs, colorTif)
	if err != nil {
		return
	}
	if colorInfo.Bands < SATELLITE_BANDS {
		log.Error(t.logTag+"color tif bands not enough", zap.String("tif", colorTif), zap.Int("bands", colorInfo.Bands))
		return ErrBandCountMismatch
	}
	inter := intersectSpan(rasterSpan(elevInfo), rasterSpan(colorInfo))
	if spanEmpty(inter) {
		log.Error(t.logTag+"rasters do not overlap", zap.Float64s("span", inter[:]))
		return ErrNoOverlap
	}

	scaled, err := t.RescaleElevationGlobal(elevTif)
	if err != nil {
		return
	}
	if err = os.MkdirAll(outDir, os.ModePerm); err != nil {
		return
	}

	var (
		cellW      = (inter[1] - inter[0]) / float64(nCols)
		cellH      = (inter[3] - inter[2]) / float64(nRows)
		colorBands = colorDs.Bands()
		fill       = colorFill(colorInfo.NoData, colorInfo.HasNoData)
		total      = nRows * nCols
		done       = 0
		workers    = max(opts.Workers, 1)
		p          = pool.New().WithMaxGoroutines(workers).WithErrors().WithFirstError()
	)
	log.Info(t.logTag+"start chunking", zap.Int("rows", nRows), zap.Int("cols", nCols),
		zap.Int("workers", workers), zap.String("out", outDir))

	for row := 0; row < nRows; row++ {
		cellTop := inter[3] - float64(row)*cellH
		cellBottom := cellTop - cellH
		for col := 0; col < nCols; col++ {
			cellLeft := inter[0] + float64(col)*cellW
			cellRight := cellLeft + cellW

			elevWin := cellWindow(elevInfo.Transform, cellLeft, cellTop, cellRight, cellBottom)
			elevTile := &Tile{
				Kind:   TileElevation,
				Row:    row,
				Col:    col,
				Width:  elevWin.w,
				Height: elevWin.h,
				Gray:   cropScaled(scaled, elevWin),
			}

			colorWin := cellWindow(colorInfo.Transform, cellLeft, cellTop, cellRight, cellBottom)
			colorTile := &Tile{
				Kind:   TileColor,
				Row:    row,
				Col:    col,
				Width:  colorWin.w,
				Height: colorWin.h,
			}
			for b := 0; b < SATELLITE_BANDS; b++ {
				if colorTile.RGB[b], err = readBandWindowBoundless(colorBands[b], colorWin, colorInfo.Width, colorInfo.Height, fill); err != nil {
					log.Error(t.logTag+"read color window failed", zap.Int("row", row), zap.Int("col", col), zap.Error(err))
					p.Wait()
					return ErrTifReadFailed
				}
			}

			// 读取保持串行，PNG压缩交由工作池并行
			p.Go(func() error {
				if _, e := SaveTilePNG(elevTile, outDir); e != nil {
					return e
				}
				_, e := SaveTilePNG(colorTile, outDir)
				return e
			})

			done++
			if opts.Progress != nil {
				opts.Progress(done, total)
			}
			log.Debug(t.logTag+"cell dispatched", zap.Int("done", done), zap.Int("total", total))
		}
	}
	if err = p.Wait(); err != nil {
		log.Error(t.logTag+"tile encoding failed", zap.Error(err))
		return
	}
	log.Info(t.logTag+"all chunks saved", zap.Int("cells", total), zap.String("out", outDir))
	return
}
