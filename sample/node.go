package sample

import (
	"context"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/feature"
	"github.com/rushteam/segkit/pipeline"
)

// SplitNode 抽取特征并分层切分训练/测试集。
//   - 读取：rctx.Joined
//   - 写入：rctx.Train, rctx.Test
type SplitNode struct {
	Extractor *feature.Extractor
	TestSize  float64
	Seed      int64
}

func (n *SplitNode) Name() string        { return "split.stratified" }
func (n *SplitNode) Kind() pipeline.Kind { return pipeline.KindSplit }

func (n *SplitNode) Process(_ context.Context, rctx *core.RunContext) error {
	extractor := n.Extractor
	if extractor == nil {
		var err error
		if extractor, err = feature.NewExtractor(); err != nil {
			return err
		}
	}
	ds, err := extractor.Dataset(rctx.Joined)
	if err != nil {
		return core.WrapError(core.StageSplit, core.ErrorCodeInvalidInput, "build dataset", err)
	}

	train, test, err := StratifiedSplit(ds, n.TestSize, n.Seed)
	if err != nil {
		return err
	}
	rctx.Train, rctx.Test = train, test
	rctx.Logger.Info().
		Strs("features", ds.FeatureNames).
		Int("train", train.Len()).
		Int("test", test.Len()).
		Interface("train_classes", train.ClassCounts()).
		Interface("test_classes", test.ClassCounts()).
		Msg("dataset split")
	return nil
}
