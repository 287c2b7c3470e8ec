package tilelib

import (
	"math"

	"github.com/wgdzlh/tilelib/log"

	"go.uber.org/zap"
)

func pixelToWorld(gt GeoTransform, px, py float64) (x, y float64) {
	x = gt[0] + px*gt[1] + py*gt[2]
	y = gt[3] + px*gt[4] + py*gt[5]
	return
}

func worldToPixel(gt GeoTransform, x, y float64) (px, py float64) {
	det := gt[1]*gt[5] - gt[2]*gt[4]
	px = (gt[5]*(x-gt[0]) - gt[2]*(y-gt[3])) / det
	py = (gt[1]*(y-gt[3]) - gt[4]*(x-gt[0])) / det
	return
}

// 栅格四角坐标的包络范围
func rasterSpan(info RasterInfo) (span Span) {
	w, h := float64(info.Width), float64(info.Height)
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x, y := pixelToWorld(info.Transform, c[0], c[1])
		xs = append(xs, x)
		ys = append(ys, y)
	}
	span[0], span[1] = minMax(xs)
	span[2], span[3] = minMax(ys)
	return
}

func minMax(vs []float64) (mn, mx float64) {
	mn, mx = vs[0], vs[0]
	for _, v := range vs[1:] {
		mn = math.Min(mn, v)
		mx = math.Max(mx, v)
	}
	return
}

func unionSpan(a, b Span) Span {
	return Span{
		math.Min(a[0], b[0]),
		math.Max(a[1], b[1]),
		math.Min(a[2], b[2]),
		math.Max(a[3], b[3]),
	}
}

func intersectSpan(a, b Span) Span {
	return Span{
		math.Max(a[0], b[0]),
		math.Min(a[1], b[1]),
		math.Max(a[2], b[2]),
		math.Min(a[3], b[3]),
	}
}

func spanEmpty(s Span) bool {
	return s[0] >= s[1] || s[2] >= s[3]
}

// 与rasterio.transform.from_bounds一致：分辨率按范围/像素数取值
func transformFromBounds(span Span, width, height int) GeoTransform {
	return GeoTransform{
		span[0], (span[1] - span[0]) / float64(width), 0,
		span[3], 0, (span[2] - span[3]) / float64(height),
	}
}

// 输出变换平移到块起点
func offsetTransform(gt GeoTransform, xOff, yOff int) GeoTransform {
	x0, y0 := pixelToWorld(gt, float64(xOff), float64(yOff))
	return GeoTransform{x0, gt[1], gt[2], y0, gt[4], gt[5]}
}

// 计算合并输出的范围、分辨率、仿射变换等元数据。
// 范围为全部输入的并集；坐标系、数据类型与基准分辨率取首张影像，
// 目标分辨率为基准分辨率除以scaleFactor。
func ComputeMergeMetadata(infos []RasterInfo, scaleFactor float64) (meta MergeMetadata, err error) {
	if len(infos) == 0 {
		err = ErrNoInput
		return
	}
	if scaleFactor == 0 {
		scaleFactor = 1.0
	} else if scaleFactor < 0 {
		err = ErrBadScaleFactor
		return
	}
	bounds := rasterSpan(infos[0])
	for _, info := range infos[1:] {
		bounds = unionSpan(bounds, rasterSpan(info))
	}
	ref := infos[0]
	targetRes := math.Abs(ref.Transform[1]) / scaleFactor
	width := int(math.Ceil((bounds[1] - bounds[0]) / targetRes))
	height := int(math.Ceil((bounds[3] - bounds[2]) / targetRes))
	meta = MergeMetadata{
		Transform: transformFromBounds(bounds, width, height),
		ProjWKT:   ref.ProjWKT,
		DataType:  ref.DataType,
		Res:       targetRes,
		Width:     width,
		Height:    height,
		Bounds:    bounds,
	}
	log.Info("merge metadata computed",
		zap.Int("width", width), zap.Int("height", height),
		zap.Float64("res", targetRes), zap.Float64s("bounds", bounds[:]))
	return
}
