package tilelib

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// 分块文件名：类别前缀加补零行列号，下游仅凭文件名即可按(r,c)配对
func TileFileName(kind TileKind, row, col int) string {
	if kind == TileElevation {
		return fmt.Sprintf(ELEV_TILE_NAME, row, col)
	}
	return fmt.Sprintf(COLOR_TILE_NAME, row, col)
}

// 高程块转单通道16位灰度图，无数据像素已在重采样阶段归零
func elevTileImage(t *Tile) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, t.Width, t.Height))
	for i, v := range t.Gray {
		img.Pix[2*i] = uint8(v >> 8)
		img.Pix[2*i+1] = uint8(v)
	}
	return img
}

// 影像块按(band,row,col)->(row,col,band)交织为不透明真彩图，
// PNG编码器对全不透明图输出3通道8位
func colorTileImage(t *Tile) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	n := t.Width * t.Height
	for i := 0; i < n; i++ {
		img.Pix[4*i] = t.RGB[0][i]
		img.Pix[4*i+1] = t.RGB[1][i]
		img.Pix[4*i+2] = t.RGB[2][i]
		img.Pix[4*i+3] = 0xff
	}
	return img
}

// 编码单个分块为无损PNG文件，返回落盘路径
func SaveTilePNG(t *Tile, dir string) (path string, err error) {
	var img image.Image
	if t.Kind == TileElevation {
		img = elevTileImage(t)
	} else {
		img = colorTileImage(t)
	}
	path = filepath.Join(dir, TileFileName(t.Kind, t.Row, t.Col))
	f, err := os.Create(path)
	if err != nil {
		return
	}
	if err = pngEncoder.Encode(f, img); err != nil {
		f.Close()
		return
	}
	err = f.Close()
	return
}
