// Package evaluate 在测试集上计算混淆矩阵与准确率。
//
// 混淆矩阵由 golearn 的 evaluation 包统计：实际标签与预测标签各装入一个
// 只含类别列的 DenseInstances，再按行比较。
package evaluate

import (
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/evaluation"

	"github.com/rushteam/segkit/core"
)

const classAttribute = "Activity_Level"

// Evaluate 比较实际标签与预测标签，返回 [Low, High] 顺序的混淆矩阵和准确率。
func Evaluate(actual, predicted []string) (core.Metrics, error) {
	if len(actual) == 0 {
		return core.Metrics{}, core.NewDomainError(core.StageEvaluate, core.ErrorCodeEmptyResult, "test set is empty")
	}
	if len(actual) != len(predicted) {
		return core.Metrics{}, core.Errorf(core.StageEvaluate, core.ErrorCodeInvalidInput,
			"%d labels but %d predictions", len(actual), len(predicted))
	}

	ref, err := classGrid(actual)
	if err != nil {
		return core.Metrics{}, err
	}
	gen, err := classGrid(predicted)
	if err != nil {
		return core.Metrics{}, err
	}
	cm, err := evaluation.GetConfusionMatrix(ref, gen)
	if err != nil {
		return core.Metrics{}, core.WrapError(core.StageEvaluate, core.ErrorCodeInternal, "confusion matrix", err)
	}

	low, high := string(core.ActivityLow), string(core.ActivityHigh)
	return core.Metrics{
		Accuracy:      evaluation.GetAccuracy(cm),
		TrueNegative:  cm[low][low],
		FalsePositive: cm[low][high],
		FalseNegative: cm[high][low],
		TruePositive:  cm[high][high],
	}, nil
}

// classGrid 把标签装入只有一个类别列的 DenseInstances。
// 类别值按 [Low, High] 预先注册，保证两份数据的编码一致。
func classGrid(labels []string) (*base.DenseInstances, error) {
	attr := base.NewCategoricalAttribute()
	attr.SetName(classAttribute)
	for _, c := range core.ActivityClasses {
		attr.GetSysValFromString(string(c))
	}

	grid := base.NewDenseInstances()
	attrSpec := grid.AddAttribute(attr)
	if err := grid.AddClassAttribute(attr); err != nil {
		return nil, core.WrapError(core.StageEvaluate, core.ErrorCodeInternal, "class attribute", err)
	}
	if err := grid.Extend(len(labels)); err != nil {
		return nil, core.WrapError(core.StageEvaluate, core.ErrorCodeInternal, "allocate rows", err)
	}
	for i, l := range labels {
		if !isActivityClass(l) {
			return nil, core.Errorf(core.StageEvaluate, core.ErrorCodeInvalidValue, "row %d: unknown class %q", i, l)
		}
		grid.Set(attrSpec, i, attr.GetSysValFromString(l))
	}
	return grid, nil
}

func isActivityClass(s string) bool {
	for _, c := range core.ActivityClasses {
		if string(c) == s {
			return true
		}
	}
	return false
}
