package tilelib

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wgdzlh/tilelib/log"
	"github.com/wgdzlh/tilelib/utils"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// 重投影服务接口：把src按dst自身的网格（尺寸、仿射变换、坐标系）重采样写入dst。
// 合并流程只依赖该接口，不实现任何投影数学。
type Reprojector interface {
	WarpInto(dst, src *gdal.Dataset, alg ResampleAlg) error
}

type gdalReprojector struct{}

func (gdalReprojector) WarpInto(dst, src *gdal.Dataset, alg ResampleAlg) error {
	return dst.WarpInto([]*gdal.Dataset{src}, []string{"-r", string(alg)})
}

// 块状临时数据集，按输出网格的一个窗口建立，各波段填满nodata
func newBlockDataset(bands, width, height int, gt GeoTransform, projWkt string, nodata float64) (ds *gdal.Dataset, err error) {
	ds, err = gdal.Create(gdal.Memory, "", bands, gdal.Float64, width, height)
	if err != nil {
		return
	}
	if err = ds.SetGeoTransform(gt); err != nil {
		ds.Close()
		return
	}
	if projWkt != "" {
		var sr *gdal.SpatialRef
		if sr, err = gdal.NewSpatialRefFromWKT(projWkt); err != nil {
			ds.Close()
			return
		}
		err = ds.SetSpatialRef(sr)
		sr.Close()
		if err != nil {
			ds.Close()
			return
		}
	}
	for _, b := range ds.Bands() {
		if err = b.SetNoData(nodata); err != nil {
			ds.Close()
			return
		}
		if err = b.Fill(nodata, 0); err != nil {
			ds.Close()
			return
		}
	}
	return
}

// 把坐标系不一致的输入整体重投影到目标坐标系，临时tif集中放在tmpDir下的唯一子目录。
// 返回与输入等长的数据集列表（坐标系一致的原样保留）及需整体回收的临时目录
// （全部输入坐标系一致时为空）。出错时内部创建的临时数据集与目录均已回收。
func (t *TileToolbox) reprojectToSRS(dss []*gdal.Dataset, paths []string, target *gdal.SpatialRef, tSrsArg string, alg ResampleAlg) (out []*gdal.Dataset, workDir string, err error) {
	out = make([]*gdal.Dataset, len(dss))
	var warped []*gdal.Dataset
	cleanup := func() {
		for _, w := range warped {
			w.Close()
		}
		if workDir != "" {
			os.RemoveAll(workDir)
		}
		out, workDir = nil, ""
	}
	for i, ds := range dss {
		sr := ds.SpatialRef()
		if sr != nil && sr.IsSame(target) {
			out[i] = ds
			continue
		}
		if workDir == "" {
			if workDir, err = utils.GetUniqSubDir(t.tmpDir); err != nil {
				log.Error(t.logTag+"create warp work dir failed", zap.Error(err))
				out = nil
				return
			}
		}
		tmp := filepath.Join(workDir, fmt.Sprintf(TMP_WARP_TIF, i))
		log.Info(t.logTag+"reproject input to target srs", zap.String("tif", paths[i]), zap.String("tmp", tmp))
		wds, e := gdal.Warp(tmp, []*gdal.Dataset{ds}, []string{"-t_srs", tSrsArg, "-r", string(alg), "-overwrite"})
		if e != nil {
			log.Error(t.logTag+"reproject input failed", zap.String("tif", paths[i]), zap.Error(e))
			cleanup()
			err = ErrReprojectFailed
			return
		}
		warped = append(warped, wds)
		out[i] = wds
	}
	return
}
