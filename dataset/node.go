package dataset

import (
	"context"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/label"
	"github.com/rushteam/segkit/pipeline"
)

// LoadSegmentsNode 读取聚类导出文件。
//   - 写入：rctx.SegmentTable
type LoadSegmentsNode struct {
	Path      string
	Separator rune
}

func (n *LoadSegmentsNode) Name() string        { return "load.segments" }
func (n *LoadSegmentsNode) Kind() pipeline.Kind { return pipeline.KindLoad }

func (n *LoadSegmentsNode) Process(_ context.Context, rctx *core.RunContext) error {
	t, err := LoadTable(n.Path, n.Separator)
	if err != nil {
		return err
	}
	rctx.SegmentTable = t
	rctx.Logger.Info().Str("path", n.Path).Strs("header", t.Header).Int("rows", t.Len()).Msg("segments loaded")
	return nil
}

// NormalizeSegmentsNode 清洗聚类导出表。
//   - 读取：rctx.SegmentTable
//   - 写入：rctx.Segments
type NormalizeSegmentsNode struct{}

func (n *NormalizeSegmentsNode) Name() string        { return "normalize.segments" }
func (n *NormalizeSegmentsNode) Kind() pipeline.Kind { return pipeline.KindNormalize }

func (n *NormalizeSegmentsNode) Process(_ context.Context, rctx *core.RunContext) error {
	segments, err := NormalizeSegments(rctx.SegmentTable)
	if err != nil {
		return err
	}
	rctx.Segments = segments
	rctx.Logger.Info().Int("users", len(segments)).Msg("segments normalized")
	return nil
}

// LoadRatingsNode 流式读取评分日志并按用户计数。
//   - 写入：rctx.RawCounts, rctx.RatingRows
type LoadRatingsNode struct {
	Path      string
	Separator rune
}

func (n *LoadRatingsNode) Name() string        { return "load.ratings" }
func (n *LoadRatingsNode) Kind() pipeline.Kind { return pipeline.KindLoad }

func (n *LoadRatingsNode) Process(_ context.Context, rctx *core.RunContext) error {
	counter := label.NewCounter()
	stats, err := ScanRatingsFile(n.Path, n.Separator, func(rec core.RatingRecord) error {
		counter.Add(rec)
		return nil
	})
	if err != nil {
		return err
	}
	rctx.RawCounts = counter.Counts()
	rctx.RatingRows = counter.Rows()
	rctx.Logger.Info().
		Str("path", n.Path).
		Int("rows", stats.Rows).
		Int("skipped", stats.Skipped).
		Int("users", counter.Users()).
		Msg("ratings counted")
	return nil
}
