package tilelib

import (
	"fmt"
	"math"
	"os"

	"github.com/wgdzlh/tilelib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// 后写覆盖：src中有效像素覆盖dst对应位置，排序靠后的输入优先显示
func compositeBand(dst, src []float64, nodata float64) {
	if math.IsNaN(nodata) {
		for i, v := range src {
			if !math.IsNaN(v) {
				dst[i] = v
			}
		}
		return
	}
	for i, v := range src {
		if v != nodata {
			dst[i] = v
		}
	}
}

type blockWindow struct {
	x, y, w, h int
}

func countBlocks(width, height, size int) int {
	return ((height + size - 1) / size) * ((width + size - 1) / size)
}

// 按行主序遍历输出网格的所有块
func forEachBlock(width, height, size int, fn func(b blockWindow) error) error {
	for yOff := 0; yOff < height; yOff += size {
		h := min(size, height-yOff)
		for xOff := 0; xOff < width; xOff += size {
			w := min(size, width-xOff)
			if err := fn(blockWindow{x: xOff, y: yOff, w: w, h: h}); err != nil {
				return err
			}
		}
	}
	return nil
}

// 合并多张栅格为单张镶嵌tif。输入先统一到目标坐标系，再按块重投影合成。
// 任一块上的重投影失败即整体失败，不产出残缺镶嵌图。
func (t *TileToolbox) MergeRasters(files []string, out string, opts MergeOptions) (ret string, err error) {
	if len(files) == 0 {
		err = ErrNoInput
		return
	}
	if opts.Resampling == "" {
		opts.Resampling = ResampleBilinear
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DEFAULT_BLOCK_SIZE
	}
	log.Info(t.logTag+"start merging rasters", zap.Int("count", len(files)),
		zap.Int("bands", opts.Bands), zap.Float64("scaleFactor", opts.ScaleFactor), zap.String("out", out))

	dss := make([]*gdal.Dataset, 0, len(files))
	defer func() {
		for _, ds := range dss {
			ds.Close()
		}
	}()
	var ds *gdal.Dataset
	for _, f := range files {
		if ds, err = t.openRaster(f); err != nil {
			return
		}
		dss = append(dss, ds)
	}

	var (
		target  *gdal.SpatialRef
		tSrsArg string
	)
	if opts.TargetSRID != 0 {
		if target, err = t.getSridRef(opts.TargetSRID); err != nil {
			return
		}
		tSrsArg = fmt.Sprintf("epsg:%d", opts.TargetSRID)
	} else if sr := dss[0].SpatialRef(); sr != nil {
		target = sr
		if tSrsArg, err = sr.WKT(); err != nil {
			log.Error(t.logTag+"ref srs to wkt failed", zap.String("tif", files[0]), zap.Error(err))
			err = ErrInvalidTif
			return
		}
	}
	working := dss
	if target != nil {
		var warpDir string
		if working, warpDir, err = t.reprojectToSRS(dss, files, target, tSrsArg, opts.Resampling); err != nil {
			return
		}
		if warpDir != "" {
			defer os.RemoveAll(warpDir)
		}
		for i, w := range working {
			if w != dss[i] {
				dss = append(dss, w) // 随源数据一并关闭
			}
		}
	}

	infos := make([]RasterInfo, len(working))
	for i, w := range working {
		if infos[i], err = t.readRasterInfo(w, files[i]); err != nil {
			return
		}
	}
	meta, err := ComputeMergeMetadata(infos, opts.ScaleFactor)
	if err != nil {
		return
	}
	bands := opts.Bands
	if bands <= 0 {
		bands = infos[0].Bands
	}
	for i, info := range infos {
		if info.Bands < bands {
			log.Error(t.logTag+"tif bands not enough", zap.String("tif", files[i]),
				zap.Int("bands", info.Bands), zap.Int("want", bands))
			err = ErrBandCountMismatch
			return
		}
	}
	nodata := DEFAULT_COLOR_NODATA
	if bands == 1 {
		nodata = DEFAULT_ELEV_NODATA
	}
	if infos[0].HasNoData {
		nodata = infos[0].NoData
	}

	if err = t.writeRasterBlocks(working, out, meta, bands, nodata, opts); err != nil {
		return
	}
	ret = out
	return
}

func (t *TileToolbox) writeRasterBlocks(srcs []*gdal.Dataset, out string, meta MergeMetadata, bands int, nodata float64, opts MergeOptions) (err error) {
	dst, err := gdal.Create(gdal.GTiff, out, bands, meta.DataType, meta.Width, meta.Height,
		gdal.CreationOption("COMPRESS=LZW", "TILED=YES", "BIGTIFF=YES"))
	if err != nil {
		log.Error(t.logTag+"create merged tif failed", zap.String("out", out), zap.Error(err))
		return ErrTifWriteFailed
	}
	closed := false
	defer func() {
		if !closed {
			dst.Close()
		}
	}()
	if err = dst.SetGeoTransform(meta.Transform); err != nil {
		return
	}
	if meta.ProjWKT != "" {
		var sr *gdal.SpatialRef
		if sr, err = gdal.NewSpatialRefFromWKT(meta.ProjWKT); err != nil {
			return
		}
		err = dst.SetSpatialRef(sr)
		sr.Close()
		if err != nil {
			return
		}
	}
	dstBands := dst.Bands()
	for _, b := range dstBands {
		if err = b.SetNoData(nodata); err != nil {
			return
		}
	}

	var (
		reproj   Reprojector = gdalReprojector{}
		total                = countBlocks(meta.Width, meta.Height, opts.BlockSize)
		done                 = 0
		buf, tmp []float64
	)
	err = forEachBlock(meta.Width, meta.Height, opts.BlockSize, func(b blockWindow) (e error) {
		n := b.w * b.h
		buf = resizeF64(buf, bands*n)
		for i := range buf {
			buf[i] = nodata
		}
		blockGt := offsetTransform(meta.Transform, b.x, b.y)
		for _, src := range srcs {
			var blk *gdal.Dataset
			if blk, e = newBlockDataset(bands, b.w, b.h, blockGt, meta.ProjWKT, nodata); e != nil {
				return
			}
			if e = reproj.WarpInto(blk, src, opts.Resampling); e != nil {
				blk.Close()
				log.Error(t.logTag+"block reprojection failed", zap.Int("xOff", b.x), zap.Int("yOff", b.y), zap.Error(e))
				return ErrReprojectFailed
			}
			blkBands := blk.Bands()
			for i := 0; i < bands; i++ {
				tmp = resizeF64(tmp, n)
				if e = blkBands[i].IO(gdal.IORead, 0, 0, tmp, b.w, b.h); e != nil {
					blk.Close()
					return ErrTifReadFailed
				}
				compositeBand(buf[i*n:(i+1)*n], tmp, nodata)
			}
			blk.Close()
		}
		for i := 0; i < bands; i++ {
			if e = dstBands[i].IO(gdal.IOWrite, b.x, b.y, buf[i*n:(i+1)*n], b.w, b.h); e != nil {
				log.Error(t.logTag+"write block failed", zap.Int("xOff", b.x), zap.Int("yOff", b.y), zap.Error(e))
				return ErrTifWriteFailed
			}
		}
		done++
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
		log.Debug(t.logTag+"block merged", zap.Int("done", done), zap.Int("total", total))
		return
	})
	if err != nil {
		return
	}
	closed = true
	if err = dst.Close(); err != nil {
		log.Error(t.logTag+"close merged tif failed", zap.String("out", out), zap.Error(err))
		return ErrTifWriteFailed
	}
	log.Info(t.logTag+"merge completed", zap.String("out", out), zap.Int("blocks", done))
	return
}

func resizeF64(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
