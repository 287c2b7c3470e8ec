package tilelib

import (
	gdal "github.com/airbusgeo/godal"
)

// 经纬度范围 [minx, maxx, miny, maxy]
type Span = [4]float64

// 仿射变换参数，GDAL六元组次序
type GeoTransform = [6]float64

type ResampleAlg string

const (
	ResampleNearest  ResampleAlg = "near"
	ResampleBilinear ResampleAlg = "bilinear"
	ResampleCubic    ResampleAlg = "cubic"
	ResampleAverage  ResampleAlg = "average"
)

// 合并/切块进度回调，仅作观测用途
type ProgressFunc func(done, total int)

// 打开的栅格数据集快照
type RasterInfo struct {
	Path      string
	Width     int
	Height    int
	Bands     int
	DataType  gdal.DataType
	Transform GeoTransform
	ProjWKT   string
	NoData    float64
	HasNoData bool
}

// 一次合并操作的输出元数据，由输入范围并集推导，之后不再变更
type MergeMetadata struct {
	Transform GeoTransform
	ProjWKT   string
	DataType  gdal.DataType
	Res       float64
	Width     int
	Height    int
	Bounds    Span
}

type MergeOptions struct {
	Bands       int     // 输出波段数，0则取参考影像波段数
	ScaleFactor float64 // 0则为1.0；<1降采样，>1升采样
	BlockSize   int     // 0则为DEFAULT_BLOCK_SIZE
	Resampling  ResampleAlg
	TargetSRID  int // 0则取首张影像坐标系
	Progress    ProgressFunc
}

type ChunkOptions struct {
	Workers  int // PNG编码并发数，0则为单线程
	Progress ProgressFunc
}

type TileKind uint8

const (
	TileElevation TileKind = iota
	TileColor
)

// 单个输出分块，高程为16位灰度，影像为RGB三平面
type Tile struct {
	Kind   TileKind
	Row    int
	Col    int
	Width  int
	Height int
	Gray   []uint16
	RGB    [3][]byte
}

// 全局重采样后的高程数据
type ScaledElevation struct {
	Pix    []uint16
	Width  int
	Height int
	NoData float64
	Min    float64
	Max    float64
}
