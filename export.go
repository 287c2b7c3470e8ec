package tilelib

import (
	"image"
	"os"

	"github.com/wgdzlh/tilelib/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// 导出整幅镶嵌图为单张PNG纹理（≥3波段输出RGB，单波段输出8位灰度）。
// 按行块读取以控制单次读取量，整图编码仍需一次性内存
func (t *TileToolbox) ExportTexturePNG(tif, out string, blockSize int) (err error) {
	if blockSize <= 0 {
		blockSize = DEFAULT_BLOCK_SIZE
	}
	ds, err := t.openRaster(tif)
	if err != nil {
		return
	}
	defer ds.Close()
	st := ds.Structure()
	log.Info(t.logTag+"start texture export", zap.String("tif", tif),
		zap.Int("width", st.SizeX), zap.Int("height", st.SizeY), zap.Int("bands", st.NBands))

	var img image.Image
	switch {
	case st.NBands >= SATELLITE_BANDS:
		img, err = t.readTextureRGB(ds, st.SizeX, st.SizeY, blockSize)
	case st.NBands == 1:
		img, err = t.readTextureGray(ds, st.SizeX, st.SizeY, blockSize)
	default:
		err = ErrUnsupportedBandNum
	}
	if err != nil {
		return
	}
	f, err := os.Create(out)
	if err != nil {
		return
	}
	if err = pngEncoder.Encode(f, img); err != nil {
		f.Close()
		return
	}
	if err = f.Close(); err != nil {
		return
	}
	log.Info(t.logTag+"texture saved", zap.String("out", out))
	return
}

func (t *TileToolbox) readTextureGray(ds *gdal.Dataset, width, height, blockSize int) (img *image.Gray, err error) {
	img = image.NewGray(image.Rect(0, 0, width, height))
	band := ds.Bands()[0]
	for yOff := 0; yOff < height; yOff += blockSize {
		h := min(blockSize, height-yOff)
		if err = band.IO(gdal.IORead, 0, yOff, img.Pix[yOff*width:(yOff+h)*width], width, h); err != nil {
			log.Error(t.logTag+"read texture rows failed", zap.Int("yOff", yOff), zap.Error(err))
			err = ErrTifReadFailed
			return
		}
	}
	return
}

func (t *TileToolbox) readTextureRGB(ds *gdal.Dataset, width, height, blockSize int) (img *image.NRGBA, err error) {
	img = image.NewNRGBA(image.Rect(0, 0, width, height))
	bands := ds.Bands()
	buf := make([]byte, width*blockSize)
	for yOff := 0; yOff < height; yOff += blockSize {
		h := min(blockSize, height-yOff)
		n := width * h
		for b := 0; b < SATELLITE_BANDS; b++ {
			if err = bands[b].IO(gdal.IORead, 0, yOff, buf[:n], width, h); err != nil {
				log.Error(t.logTag+"read texture rows failed", zap.Int("band", b), zap.Int("yOff", yOff), zap.Error(err))
				err = ErrTifReadFailed
				return
			}
			pix := img.Pix[yOff*width*4:]
			for i := 0; i < n; i++ {
				pix[4*i+b] = buf[i]
			}
		}
		pix := img.Pix[yOff*width*4:]
		for i := 0; i < n; i++ {
			pix[4*i+3] = 0xff
		}
	}
	return
}
