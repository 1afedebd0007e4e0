package feature

import (
	"fmt"
	"sort"

	"github.com/rushteam/segkit/core"
)

// 可用特征名
const (
	AvgRatingZ        = "avg_rating_z"
	StdDevRatingZ     = "stddev_rating_z"
	TotalMoviesRatedZ = "total_movies_rated_z"
)

var getters = map[string]func(core.JoinedRecord) float64{
	AvgRatingZ:        func(r core.JoinedRecord) float64 { return r.AvgRatingZ },
	StdDevRatingZ:     func(r core.JoinedRecord) float64 { return r.StdDevRatingZ },
	TotalMoviesRatedZ: func(r core.JoinedRecord) float64 { return r.TotalMoviesRatedZ },
}

// Extractor 按固定顺序从连接后的记录中抽取特征向量。
//
// 默认特征为 [avg_rating_z, stddev_rating_z]。total_movies_rated_z 与标签高度相关
// （都来自评分条数），默认不参与训练。
type Extractor struct {
	names []string
}

// NewExtractor 创建抽取器；特征名未知或重复时返回错误。
func NewExtractor(names ...string) (*Extractor, error) {
	if len(names) == 0 {
		names = core.DefaultRunDefaults{}.DefaultFeatures()
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := getters[n]; !ok {
			return nil, core.Errorf(core.StageConfig, core.ErrorCodeInvalidInput,
				"unknown feature %q (known: %v)", n, Names())
		}
		if seen[n] {
			return nil, core.Errorf(core.StageConfig, core.ErrorCodeInvalidInput, "duplicate feature %q", n)
		}
		seen[n] = true
	}
	return &Extractor{names: append([]string(nil), names...)}, nil
}

// Names 返回所有可用特征名（排序后）。
func Names() []string {
	out := make([]string, 0, len(getters))
	for n := range getters {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// FeatureNames 返回抽取器使用的特征名
func (e *Extractor) FeatureNames() []string { return e.names }

// Extract 返回单条记录的特征向量。
func (e *Extractor) Extract(rec core.JoinedRecord) []float64 {
	out := make([]float64, len(e.names))
	for i, n := range e.names {
		out[i] = getters[n](rec)
	}
	return out
}

// Dataset 把记录转换为带标签的样本集；记录必须已经打好活跃度标签。
func (e *Extractor) Dataset(records []core.JoinedRecord) (core.Dataset, error) {
	ds := core.Dataset{
		FeatureNames: e.FeatureNames(),
		Samples:      make([]core.Sample, 0, len(records)),
	}
	classes := make(map[string]bool)
	for _, r := range records {
		if r.ActivityLevel == "" {
			return core.Dataset{}, fmt.Errorf("user %d has no activity level", r.UserID)
		}
		lbl := string(r.ActivityLevel)
		classes[lbl] = true
		ds.Samples = append(ds.Samples, core.Sample{
			UserID:   r.UserID,
			Features: e.Extract(r),
			Label:    lbl,
		})
	}
	for c := range classes {
		ds.Classes = append(ds.Classes, c)
	}
	sort.Strings(ds.Classes)
	return ds, nil
}
