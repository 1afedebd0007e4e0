package export

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rushteam/segkit/core"
)

// File 是一个待写出的文件。
type File struct {
	Name  string
	Write func(w io.Writer) error
}

// WriteBundle 要么写出全部文件，要么一个也不留下。
//
// 每个文件先写到目标目录下的临时文件，全部成功后才依次 rename 到最终文件名；
// 任一写入失败时删除所有临时文件。返回最终文件路径。
func WriteBundle(dir string, files ...File) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, core.WrapError(core.StageExport, core.ErrorCodeIO, "create output dir", err)
	}

	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range temps {
			_ = os.Remove(t)
		}
	}

	for _, f := range files {
		tmp, err := writeTemp(dir, f)
		if tmp != "" {
			temps = append(temps, tmp)
		}
		if err != nil {
			cleanup()
			return nil, err
		}
	}

	paths := make([]string, 0, len(files))
	for i, f := range files {
		dst := filepath.Join(dir, f.Name)
		if err := os.Rename(temps[i], dst); err != nil {
			cleanup()
			for _, p := range paths {
				_ = os.Remove(p)
			}
			return nil, core.WrapError(core.StageExport, core.ErrorCodeIO, "rename "+f.Name, err)
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

func writeTemp(dir string, f File) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+f.Name+".tmp-*")
	if err != nil {
		return "", core.WrapError(core.StageExport, core.ErrorCodeIO, "create temp for "+f.Name, err)
	}
	name := tmp.Name()
	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		if core.IsDomainError(err) {
			return name, err
		}
		return name, core.WrapError(core.StageExport, core.ErrorCodeIO, "write "+f.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return name, core.WrapError(core.StageExport, core.ErrorCodeIO, "close "+f.Name, err)
	}
	return name, nil
}
