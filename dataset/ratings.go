package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/pkg/conv"
)

// ScanStats 是一次评分日志扫描的统计。
type ScanStats struct {
	Rows    int // 数据行数（不含表头）
	Skipped int // movieId 缺失而未计入的行
}

type ratingColumns struct {
	userID  int
	movieID int
	rating  int // -1 表示没有 rating 列
}

// ScanRatings 流式读取评分日志，每条有效记录回调一次 fn。
// 评分日志可能有上千万行，这里不在内存中保留整表。
//
// 必需列：userId、movieId；rating 列可选。movieId 为空的行不计数。
func ScanRatings(r io.Reader, sep rune, source string, fn func(core.RatingRecord) error) (ScanStats, error) {
	var stats ScanStats
	rd := newCSVReader(r, sep)
	rd.ReuseRecord = true

	header, err := rd.Read()
	if errors.Is(err, io.EOF) {
		return stats, core.Errorf(core.StageLoad, core.ErrorCodeMissingColumn, "%s: empty file, header row expected", source)
	}
	if err != nil {
		return stats, core.WrapError(core.StageLoad, core.ErrorCodeInvalidValue, source+": read header", err)
	}
	cols, err := mapRatingColumns(cleanHeader(header), source)
	if err != nil {
		return stats, err
	}

	for {
		row, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, core.WrapError(core.StageLoad, core.ErrorCodeInvalidValue, source, err)
		}
		stats.Rows++
		line, _ := rd.FieldPos(0)

		if conv.CleanCell(row[cols.movieID]) == "" {
			stats.Skipped++
			continue
		}
		rec, err := parseRatingRow(row, cols, sep)
		if err != nil {
			return stats, core.WrapError(core.StageNormalize, core.ErrorCodeInvalidValue,
				fmt.Sprintf("%s: line %d", source, line), err)
		}
		if err := fn(rec); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// ScanRatingsFile 打开文件并调用 ScanRatings，文件句柄在返回前关闭。
func ScanRatingsFile(path string, sep rune, fn func(core.RatingRecord) error) (ScanStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ScanStats{}, core.WrapError(core.StageLoad, core.ErrorCodeIO, "open "+path, err)
	}
	defer f.Close()
	return ScanRatings(bufio.NewReader(f), sep, path, fn)
}

// LoadRatings 把评分日志整体读入内存，适合小文件与测试。
func LoadRatings(path string, sep rune) ([]core.RatingRecord, error) {
	var out []core.RatingRecord
	_, err := ScanRatingsFile(path, sep, func(rec core.RatingRecord) error {
		out = append(out, rec)
		return nil
	})
	return out, err
}

func mapRatingColumns(header []string, source string) (ratingColumns, error) {
	cols := ratingColumns{userID: -1, movieID: -1, rating: -1}
	for i, h := range header {
		switch strings.ToLower(h) {
		case "userid", "user_id":
			cols.userID = i
		case "movieid", "movie_id":
			cols.movieID = i
		case "rating":
			cols.rating = i
		}
	}
	var missing []string
	if cols.userID < 0 {
		missing = append(missing, "userId")
	}
	if cols.movieID < 0 {
		missing = append(missing, "movieId")
	}
	if len(missing) > 0 {
		return cols, core.Errorf(core.StageLoad, core.ErrorCodeMissingColumn,
			"%s: missing columns %v in header %q", source, missing, header)
	}
	return cols, nil
}

func parseRatingRow(row []string, cols ratingColumns, sep rune) (core.RatingRecord, error) {
	var rec core.RatingRecord

	userID, err := conv.ParseInt64Cell(row[cols.userID])
	if err != nil {
		return rec, fieldError(FieldUserID, err)
	}
	rec.UserID = userID

	movieID, err := conv.ParseInt64Cell(row[cols.movieID])
	if err != nil {
		return rec, fieldError("movieId", err)
	}
	rec.MovieID = movieID

	if cols.rating >= 0 && conv.CleanCell(row[cols.rating]) != "" {
		rating, err := conv.ParseFloatCell(row[cols.rating], sep)
		if err != nil {
			return rec, fieldError("rating", err)
		}
		rec.Rating = rating
	}
	return rec, nil
}
