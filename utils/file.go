package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const (
	FILE_EXT_TIF  = ".tif"
	FILE_EXT_TIFF = ".tiff"
)

func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// 列出目录下全部栅格文件（.tif/.tiff），按文件名排序。
// 合并时的覆盖优先级由该次序决定：靠后的文件优先显示
func ListRasterFiles(dir string) (files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case FILE_EXT_TIF, FILE_EXT_TIFF:
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return
}
