package tilelib

import (
	"math"

	"github.com/wgdzlh/tilelib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// 全局线性拉伸到[0,65535]。nodata与非有限值不参与极值统计，
// 且在输出中置0——0同时表示最低高程与无数据，下游如需区分必须另持原始nodata掩膜。
func rescalePix(data []float64, nodata float64, hasNoData bool) (pix []uint16, mn, mx float64, err error) {
	mn, mx = math.Inf(1), math.Inf(-1)
	valid := func(v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		if !hasNoData {
			return true
		}
		if math.IsNaN(nodata) {
			return true // NaN已被上面滤除
		}
		return v != nodata
	}
	for _, v := range data {
		if valid(v) {
			mn = math.Min(mn, v)
			mx = math.Max(mx, v)
		}
	}
	if !(mx > mn) {
		err = ErrDegenerateRange
		return
	}
	scale := ELEV_SCALE_MAX / (mx - mn)
	pix = make([]uint16, len(data))
	for i, v := range data {
		if valid(v) {
			pix[i] = uint16(math.Round((v - mn) * scale))
		}
	}
	return
}

// 读取整幅单波段高程镶嵌图并做全局16位重采样。
// 需要真实的全局极值，故整带读入内存。
func (t *TileToolbox) RescaleElevationGlobal(tif string) (scaled *ScaledElevation, err error) {
	ds, err := t.openRaster(tif)
	if err != nil {
		return
	}
	defer ds.Close()
	tifBands := ds.Bands()
	if len(tifBands) == 0 {
		err = ErrInvalidTif
		return
	}
	band := tifBands[0]
	st := band.Structure()
	data := make([]float64, st.SizeX*st.SizeY)
	if err = band.IO(gdal.IORead, 0, 0, data, st.SizeX, st.SizeY); err != nil {
		log.Error(t.logTag+"read elevation band failed", zap.String("tif", tif), zap.Error(err))
		err = ErrTifReadFailed
		return
	}
	nodata, hasNoData := band.NoData()
	pix, mn, mx, err := rescalePix(data, nodata, hasNoData)
	if err != nil {
		log.Error(t.logTag+"elevation range is degenerate", zap.String("tif", tif),
			zap.Float64("min", mn), zap.Float64("max", mx))
		return
	}
	log.Info(t.logTag+"rescaled elevation globally", zap.String("tif", tif),
		zap.Float64("min", mn), zap.Float64("max", mx))
	scaled = &ScaledElevation{
		Pix:    pix,
		Width:  st.SizeX,
		Height: st.SizeY,
		NoData: nodata,
		Min:    mn,
		Max:    mx,
	}
	return
}
