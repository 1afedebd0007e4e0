package dataset

import (
	"fmt"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/pkg/conv"
)

// NormalizeSegments 把聚类导出表转换为 UserSegmentRecord。
//
//   - 表头经 MapHeader 映射到规范列名
//   - userId 转为整数，非数字即失败
//   - Cluster_ID 去掉引号与空白，不允许为空
//   - 三个 Z-score 转为浮点
//   - userId 在表内必须唯一
func NormalizeSegments(t *core.Table) ([]core.UserSegmentRecord, error) {
	if t == nil {
		return nil, core.NewDomainError(core.StageNormalize, core.ErrorCodeInvalidInput, "segment table not loaded")
	}
	idx, err := MapHeader(t.Header)
	if err != nil {
		return nil, err
	}

	out := make([]core.UserSegmentRecord, 0, len(t.Rows))
	seen := make(map[int64]int, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2 // 1-based，表头占第一行
		rec, err := parseSegmentRow(row, idx, t.Separator)
		if err != nil {
			return nil, core.WrapError(core.StageNormalize, core.ErrorCodeInvalidValue,
				fmt.Sprintf("%s: line %d", t.Source, line), err)
		}
		if prev, dup := seen[rec.UserID]; dup {
			return nil, core.Errorf(core.StageNormalize, core.ErrorCodeInvalidValue,
				"%s: line %d: duplicate userId %d (first seen on line %d)", t.Source, line, rec.UserID, prev)
		}
		seen[rec.UserID] = line
		out = append(out, rec)
	}
	return out, nil
}

func parseSegmentRow(row []string, idx map[Field]int, sep rune) (core.UserSegmentRecord, error) {
	var rec core.UserSegmentRecord

	userID, err := conv.ParseInt64Cell(row[idx[FieldUserID]])
	if err != nil {
		return rec, fieldError(FieldUserID, err)
	}
	rec.UserID = userID

	rec.ClusterID = conv.CleanCell(row[idx[FieldClusterID]])
	if rec.ClusterID == "" {
		return rec, fieldError(FieldClusterID, errEmpty)
	}

	floats := []struct {
		field Field
		dst   *float64
	}{
		{FieldTotalMoviesRatedZ, &rec.TotalMoviesRatedZ},
		{FieldAvgRatingZ, &rec.AvgRatingZ},
		{FieldStdDevRatingZ, &rec.StdDevRatingZ},
	}
	for _, f := range floats {
		v, err := conv.ParseFloatCell(row[idx[f.field]], sep)
		if err != nil {
			return rec, fieldError(f.field, err)
		}
		*f.dst = v
	}
	return rec, nil
}
