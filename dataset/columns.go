package dataset

import (
	"sort"
	"strings"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/pkg/conv"
)

// Field 是聚类导出表的规范列名，也是导出文件使用的列名。
type Field string

const (
	FieldUserID            Field = "userId"
	FieldClusterID         Field = "Cluster_ID"
	FieldTotalMoviesRatedZ Field = "Total_Movies_Rated_ZScore"
	FieldAvgRatingZ        Field = "Average_Rating_ZScore"
	FieldStdDevRatingZ     Field = "StdDev_Rating_ZScore"
)

// SegmentFields 是聚类导出表必须包含的列。
var SegmentFields = []Field{
	FieldUserID,
	FieldClusterID,
	FieldTotalMoviesRatedZ,
	FieldAvgRatingZ,
	FieldStdDevRatingZ,
}

// headerAliases 把已知的原始表头（小写）映射到规范列名。
// 左侧包括聚类工具的聚合列写法、规范名本身以及常见的 snake_case 写法。
var headerAliases = map[string]Field{
	"userid":  FieldUserID,
	"user_id": FieldUserID,
	"user id": FieldUserID,

	"cluster":    FieldClusterID,
	"cluster_id": FieldClusterID,
	"clusterid":  FieldClusterID,
	"segment":    FieldClusterID,

	"countwithoutmissings(movieid)": FieldTotalMoviesRatedZ,
	"count(movieid)":                FieldTotalMoviesRatedZ,
	"total_movies_rated_zscore":     FieldTotalMoviesRatedZ,

	"average(rating)":       FieldAvgRatingZ,
	"avg(rating)":           FieldAvgRatingZ,
	"average_rating_zscore": FieldAvgRatingZ,

	"standard_deviation(rating)": FieldStdDevRatingZ,
	"stddev(rating)":             FieldStdDevRatingZ,
	"stddev_rating_zscore":       FieldStdDevRatingZ,
}

// CleanHeader 去掉表头两端的空白、BOM 和装饰性引号。
func CleanHeader(raw string) string {
	return conv.CleanCell(strings.TrimPrefix(raw, "\ufeff"))
}

// CanonicalField 返回原始表头对应的规范列名。
func CanonicalField(raw string) (Field, bool) {
	f, ok := headerAliases[strings.ToLower(CleanHeader(raw))]
	return f, ok
}

// MapHeader 把表头映射为 规范列名 → 列下标。
// 未知列被忽略；两列映射到同一个规范列名时报错；缺少必需列时报错。
func MapHeader(header []string) (map[Field]int, error) {
	idx := make(map[Field]int, len(SegmentFields))
	for i, h := range header {
		f, ok := CanonicalField(h)
		if !ok {
			continue
		}
		if prev, dup := idx[f]; dup {
			return nil, core.Errorf(core.StageNormalize, core.ErrorCodeInvalidInput,
				"columns %q and %q both map to %s", header[prev], h, f)
		}
		idx[f] = i
	}

	var missing []string
	for _, f := range SegmentFields {
		if _, ok := idx[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, core.Errorf(core.StageNormalize, core.ErrorCodeMissingColumn,
			"missing columns %v in header %q", missing, header)
	}
	return idx, nil
}
