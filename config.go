package tilelib

const (
	FILE_EXT_TIF  = ".tif"
	FILE_EXT_TIFF = ".tiff"
	FILE_EXT_PNG  = ".png"

	GTIFF_DRIVER_NAME = "GTiff"

	// 单波段（高程）与多波段（影像）缺省nodata
	DEFAULT_ELEV_NODATA  = -9999.0
	DEFAULT_COLOR_NODATA = 0.0

	// 分块合并时每块的像素边长
	DEFAULT_BLOCK_SIZE = 1024

	// 高程重采样输出的最大灰度值
	ELEV_SCALE_MAX = 65535

	DEFAULT_CHUNK_ROWS = 6
	DEFAULT_CHUNK_COLS = 6

	DSM_BANDS       = 1
	SATELLITE_BANDS = 3

	// 分块PNG文件名模板，行列号三位补零，下游按(r,c)配对
	ELEV_TILE_NAME  = "dsm_r%03d_c%03d" + FILE_EXT_PNG
	COLOR_TILE_NAME = "satellite_r%03d_c%03d" + FILE_EXT_PNG

	MERGED_DSM_NAME       = "dsm_merged" + FILE_EXT_TIF
	MERGED_SATELLITE_NAME = "satellite_merged" + FILE_EXT_TIF

	TMP_WARP_TIF = "warp_%02d" + FILE_EXT_TIF
)
