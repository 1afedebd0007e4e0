package label

import (
	"context"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/pipeline"
)

// ActivityNode 是打标 Node：内连接聚类记录与评分计数，并写入活跃度标签。
//   - 读取：rctx.Segments, rctx.RawCounts
//   - 写入：rctx.Joined
type ActivityNode struct {
	Rule Rule
}

func (n *ActivityNode) Name() string        { return "label.activity" }
func (n *ActivityNode) Kind() pipeline.Kind { return pipeline.KindLabel }

func (n *ActivityNode) Process(_ context.Context, rctx *core.RunContext) error {
	rule := n.Rule
	if rule == nil {
		rule = ThresholdRule{Threshold: core.DefaultRunDefaults{}.DefaultActivityThreshold()}
	}
	joined, err := Build(rctx.Segments, rctx.RawCounts, rule)
	if err != nil {
		return err
	}
	rctx.Joined = joined

	high := 0
	for _, r := range joined {
		if r.ActivityLevel == core.ActivityHigh {
			high++
		}
	}
	rctx.Logger.Info().
		Str("rule", rule.Name()).
		Int("segment_users", len(rctx.Segments)).
		Int("rating_users", len(rctx.RawCounts)).
		Int("joined", len(joined)).
		Int("high", high).
		Int("low", len(joined)-high).
		Msg("activity labels assigned")
	return nil
}
