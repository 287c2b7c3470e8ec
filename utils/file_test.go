package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListRasterFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.tif", "a.TIF", "c.tiff", "skip.png", "note.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.tif"), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	files, err := ListRasterFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.TIF"),
		filepath.Join(dir, "b.tif"),
		filepath.Join(dir, "c.tiff"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %v", files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("got %v, want %v", files, want)
		}
	}
}

func TestGetUniqSubDir(t *testing.T) {
	parent := t.TempDir()
	a, err := GetUniqSubDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GetUniqSubDir(parent)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("subdirs not unique: %s", a)
	}
	for _, d := range []string{a, b} {
		fi, serr := os.Stat(d)
		if serr != nil {
			t.Fatal(serr)
		}
		if !fi.IsDir() {
			t.Fatalf("%s is not a directory", d)
		}
		if filepath.Dir(d) != parent {
			t.Fatalf("%s is not under %s", d, parent)
		}
	}
}

func TestGetFilenameWithoutExt(t *testing.T) {
	if n := GetFilenameWithoutExt("/tmp/foo/bar.tif"); n != "bar" {
		t.Fatalf("got %s", n)
	}
}
