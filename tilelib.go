package tilelib

import (
	"sync"

	"github.com/wgdzlh/tilelib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

type TileToolbox struct {
	refMap map[int]*gdal.SpatialRef
	rLock  sync.Mutex
	tmpDir string
	logTag string
}

var registerOnce sync.Once

// 初始化切片工具箱，tmpDir为可选的临时目录路径（未提供的话为当前目录）
func NewTileToolbox(tmpDir ...string) *TileToolbox {
	registerOnce.Do(gdal.RegisterAll)
	t := &TileToolbox{
		refMap: map[int]*gdal.SpatialRef{},
		logTag: "TileToolbox:",
	}
	if len(tmpDir) > 0 && tmpDir[0] != "" {
		t.tmpDir = tmpDir[0]
	}
	return t
}

// 获取srid对应的坐标系（可复用，故无需回收）
func (t *TileToolbox) getSridRef(srid int) (ref *gdal.SpatialRef, err error) {
	t.rLock.Lock()
	defer t.rLock.Unlock()
	ref, ok := t.refMap[srid]
	if ok {
		return
	}
	ref, err = gdal.NewSpatialRefFromEPSG(srid)
	if err != nil {
		log.Error(t.logTag+"set ref srid failed", zap.Int("srid", srid), zap.Error(err))
		return
	}
	t.refMap[srid] = ref
	return
}

func (t *TileToolbox) openRaster(tif string) (ds *gdal.Dataset, err error) {
	ds, err = gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(t.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
	}
	return
}

// 读取数据集快照：尺寸、波段、坐标系与仿射参数
func (t *TileToolbox) readRasterInfo(ds *gdal.Dataset, path string) (info RasterInfo, err error) {
	st := ds.Structure()
	gt, err := ds.GeoTransform()
	if err != nil {
		log.Error(t.logTag+"tif has no geo transform", zap.String("tif", path), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	info = RasterInfo{
		Path:      path,
		Width:     st.SizeX,
		Height:    st.SizeY,
		Bands:     st.NBands,
		DataType:  st.DataType,
		Transform: gt,
	}
	if sr := ds.SpatialRef(); sr != nil {
		if info.ProjWKT, err = sr.WKT(); err != nil {
			log.Error(t.logTag+"tif srs to wkt failed", zap.String("tif", path), zap.Error(err))
			err = ErrInvalidTif
			return
		}
	}
	if bands := ds.Bands(); len(bands) > 0 {
		info.NoData, info.HasNoData = bands[0].NoData()
	}
	return
}
