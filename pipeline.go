package tilelib

import (
	"os"
	"path/filepath"

	"github.com/wgdzlh/tilelib/log"
	"github.com/wgdzlh/tilelib/utils"

	"go.uber.org/zap"
)

// 流水线配置，显式传入各阶段，无进程级可变状态
type PipelineConfig struct {
	SourcesDir    string  // 源数据根目录，内含高程与影像子目录
	ProcessingDir string  // 中间与输出产物目录
	ElevSubDir    string  // 默认 dsm
	ColorSubDir   string  // 默认 satellite
	ChunksSubDir  string  // 默认 chunks
	ColorScale    float64 // 影像合并降采样系数，默认0.5
	Rows          int     // 默认6
	Cols          int     // 默认6
	Workers       int     // 分块编码并发数
}

func (c *PipelineConfig) withDefaults() PipelineConfig {
	out := *c
	if out.ElevSubDir == "" {
		out.ElevSubDir = "dsm"
	}
	if out.ColorSubDir == "" {
		out.ColorSubDir = "satellite"
	}
	if out.ChunksSubDir == "" {
		out.ChunksSubDir = "chunks"
	}
	if out.ColorScale == 0 {
		out.ColorScale = 0.5
	}
	if out.Rows <= 0 {
		out.Rows = DEFAULT_CHUNK_ROWS
	}
	if out.Cols <= 0 {
		out.Cols = DEFAULT_CHUNK_COLS
	}
	return out
}

// 完整流水线：发现各类源tif，分别合并，再切成成对分块。
// 某一类别无输入文件时跳过该类别，两类齐备才会切块
func (t *TileToolbox) RunPipeline(cfg PipelineConfig) (err error) {
	c := cfg.withDefaults()
	if err = os.MkdirAll(c.ProcessingDir, os.ModePerm); err != nil {
		return
	}
	elevFiles, err := utils.ListRasterFiles(filepath.Join(c.SourcesDir, c.ElevSubDir))
	if err != nil && !os.IsNotExist(err) {
		return
	}
	colorFiles, err := utils.ListRasterFiles(filepath.Join(c.SourcesDir, c.ColorSubDir))
	if err != nil && !os.IsNotExist(err) {
		return
	}
	err = nil

	var mergedElev, mergedColor string
	if len(elevFiles) > 0 {
		mergedElev = filepath.Join(c.ProcessingDir, MERGED_DSM_NAME)
		if _, err = t.MergeRasters(elevFiles, mergedElev, MergeOptions{Bands: DSM_BANDS}); err != nil {
			return
		}
	} else {
		log.Warn(t.logTag+"no elevation rasters found, skipping category",
			zap.String("dir", filepath.Join(c.SourcesDir, c.ElevSubDir)))
	}
	if len(colorFiles) > 0 {
		mergedColor = filepath.Join(c.ProcessingDir, MERGED_SATELLITE_NAME)
		if _, err = t.MergeRasters(colorFiles, mergedColor, MergeOptions{
			Bands:       SATELLITE_BANDS,
			ScaleFactor: c.ColorScale,
		}); err != nil {
			return
		}
	} else {
		log.Warn(t.logTag+"no color rasters found, skipping category",
			zap.String("dir", filepath.Join(c.SourcesDir, c.ColorSubDir)))
	}
	if mergedElev == "" || mergedColor == "" {
		log.Info(t.logTag + "chunking skipped, need both merged mosaics")
		return
	}
	return t.GenerateChunks(mergedElev, mergedColor, filepath.Join(c.ProcessingDir, c.ChunksSubDir),
		c.Rows, c.Cols, ChunkOptions{Workers: c.Workers})
}
