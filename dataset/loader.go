package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/rushteam/segkit/core"
)

// ReadTable 读取带表头的分隔符文本。
// source 仅用于错误信息。
func ReadTable(r io.Reader, sep rune, source string) (*core.Table, error) {
	rd := newCSVReader(r, sep)

	header, err := rd.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.Errorf(core.StageLoad, core.ErrorCodeMissingColumn, "%s: empty file, header row expected", source)
	}
	if err != nil {
		return nil, core.WrapError(core.StageLoad, core.ErrorCodeInvalidValue, source+": read header", err)
	}

	t := &core.Table{
		Source:    source,
		Separator: sep,
		Header:    cleanHeader(header),
	}
	for {
		rec, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.StageLoad, core.ErrorCodeInvalidValue, source, err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// LoadTable 打开文件并读取为 Table，文件句柄在返回前关闭。
func LoadTable(path string, sep rune) (*core.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.StageLoad, core.ErrorCodeIO, "open "+path, err)
	}
	defer f.Close()
	return ReadTable(bufio.NewReader(f), sep, path)
}

func newCSVReader(r io.Reader, sep rune) *csv.Reader {
	rd := csv.NewReader(r)
	rd.Comma = sep
	rd.LazyQuotes = true
	rd.TrimLeadingSpace = true
	return rd
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = CleanHeader(h)
	}
	return out
}
