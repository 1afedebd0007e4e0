package evaluate

import (
	"context"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/model"
	"github.com/rushteam/segkit/pipeline"
)

// EvaluateNode 用训练好的模型预测测试集并计算指标。
//   - 读取：rctx.Model, rctx.Test
//   - 写入：rctx.Predictions, rctx.Metrics
type EvaluateNode struct{}

func (n *EvaluateNode) Name() string        { return "evaluate.confusion" }
func (n *EvaluateNode) Kind() pipeline.Kind { return pipeline.KindEvaluate }

func (n *EvaluateNode) Process(_ context.Context, rctx *core.RunContext) error {
	if rctx.Model == nil {
		return core.NewDomainError(core.StageEvaluate, core.ErrorCodeInvalidInput, "no trained model")
	}
	if rctx.Test.Len() == 0 {
		return core.NewDomainError(core.StageEvaluate, core.ErrorCodeEmptyResult, "test set is empty")
	}
	preds, err := model.PredictAll(rctx.Model, rctx.Test)
	if err != nil {
		return core.WrapError(core.StageEvaluate, core.ErrorCodeInternal, "predict", err)
	}
	m, err := Evaluate(rctx.Test.Labels(), preds)
	if err != nil {
		return err
	}
	rctx.Predictions = preds
	rctx.Metrics = &m

	rctx.Logger.Info().
		Str("model", rctx.Model.Name()).
		Float64("accuracy", m.Accuracy).
		Int("tn", m.TrueNegative).
		Int("fp", m.FalsePositive).
		Int("fn", m.FalseNegative).
		Int("tp", m.TruePositive).
		Msg("model evaluated")
	return nil
}
