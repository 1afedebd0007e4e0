// Package train 拟合活跃度分类模型。
package train

import (
	"context"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/model"
	"github.com/rushteam/segkit/pipeline"
)

// TrainNode 在训练集上拟合决策树（golearn CART）。
//   - 读取：rctx.Train
//   - 写入：rctx.Model
//
// ModelPath 非空时把训练好的树写成 JSON，便于离线复查。
type TrainNode struct {
	MaxDepth  int
	Seed      int64
	ModelPath string
}

func (n *TrainNode) Name() string        { return "train.tree" }
func (n *TrainNode) Kind() pipeline.Kind { return pipeline.KindTrain }

func (n *TrainNode) Process(_ context.Context, rctx *core.RunContext) error {
	tree, err := Fit(rctx.Train, n.MaxDepth, n.Seed)
	if err != nil {
		return err
	}
	rctx.Model = tree

	if n.ModelPath != "" {
		if err := model.SaveTree(n.ModelPath, tree); err != nil {
			return err
		}
	}
	rctx.Logger.Info().
		Int("samples", rctx.Train.Len()).
		Int("max_depth", n.MaxDepth).
		Strs("classes", tree.Classes).
		Str("model_path", n.ModelPath).
		Msg("model trained")
	return nil
}

// Fit 训练一棵决策树；训练集为空时返回 train 阶段错误。
func Fit(ds core.Dataset, maxDepth int, seed int64) (*model.DecisionTree, error) {
	if ds.Len() == 0 {
		return nil, core.NewDomainError(core.StageTrain, core.ErrorCodeEmptyResult, "training set is empty")
	}
	tree := model.NewDecisionTree(maxDepth, seed)
	if err := tree.Fit(ds); err != nil {
		return nil, err
	}
	return tree, nil
}
