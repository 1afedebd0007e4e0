package model

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/trees"

	"github.com/rushteam/segkit/core"
)

const classAttribute = "Activity_Level"

// DecisionTree 把 golearn 的 CART 分类树（Gini 不纯度）接到 core.Classifier 上。
//
// 类别固定为 core.ActivityClasses，按位置编码成 golearn 的整数标签（Low=0, High=1）。
// golearn 的切分规则：
//   - 候选阈值为相邻两个不同取值的中点，x < 阈值 进入左子树
//   - 叶子取多数类，并列时取编码较小的类别
//   - 达到 MaxDepth 或节点已纯时停止
//
// 训练过程不使用随机数，同一训练集总是得到同一棵树；Seed 只随模型文件保存。
type DecisionTree struct {
	MaxDepth int   // 最大深度，<= 0 表示不限
	Seed     int64 // 运行种子

	FeatureNames []string
	Classes      []string

	clf      *trees.CARTDecisionTreeClassifier
	majority int64
	// 根节点没有找到能降低不纯度的切分，此时 golearn 的根只有一侧标签可用
	stump bool
}

// NewDecisionTree 创建决策树
func NewDecisionTree(maxDepth int, seed int64) *DecisionTree {
	return &DecisionTree{MaxDepth: maxDepth, Seed: seed}
}

func (t *DecisionTree) Name() string { return "decision_tree" }

// Fit 在样本集上训练。
func (t *DecisionTree) Fit(ds core.Dataset) error {
	if ds.Len() == 0 {
		return core.NewDomainError(core.StageTrain, core.ErrorCodeEmptyResult, "no training samples")
	}
	nFeatures := len(ds.Samples[0].Features)
	if nFeatures == 0 {
		return core.NewDomainError(core.StageTrain, core.ErrorCodeInvalidInput, "samples have no features")
	}

	classes := classNames()
	rows := make([][]float64, ds.Len())
	labels := make([]int64, ds.Len())
	for i, s := range ds.Samples {
		if len(s.Features) != nFeatures {
			return core.Errorf(core.StageTrain, core.ErrorCodeInvalidInput,
				"sample %d has %d features, expected %d", i, len(s.Features), nFeatures)
		}
		code, ok := classCode(classes, s.Label)
		if !ok {
			return core.Errorf(core.StageTrain, core.ErrorCodeInvalidInput, "sample %d has unknown class %q", i, s.Label)
		}
		rows[i] = s.Features
		labels[i] = code
	}

	names := featureNames(ds.FeatureNames, nFeatures)
	grid, err := instances(names, rows, labels)
	if err != nil {
		return err
	}
	clf := trees.NewDecisionTreeClassifier(trees.GINI, golearnDepth(t.MaxDepth), classLabels(classes))
	if err := clf.Fit(grid); err != nil {
		return core.WrapError(core.StageTrain, core.ErrorCodeInternal, "fit decision tree", err)
	}

	t.FeatureNames = names
	t.Classes = classes
	t.attach(clf, rows, labels)
	return nil
}

// Predict 返回单条样本的预测类别。
func (t *DecisionTree) Predict(features []float64) (string, error) {
	if t.clf == nil || t.clf.RootNode == nil {
		return "", core.NewDomainError(core.StageEvaluate, core.ErrorCodeInvalidInput, "decision tree is not fitted")
	}
	if len(features) != len(t.FeatureNames) {
		return "", fmt.Errorf("got %d features, tree was fitted on %d", len(features), len(t.FeatureNames))
	}
	if t.stump {
		return t.Classes[t.majority], nil
	}

	grid, err := instances(t.FeatureNames, [][]float64{features}, []int64{0})
	if err != nil {
		return "", err
	}
	preds := t.clf.Predict(grid)
	if len(preds) != 1 || preds[0] < 0 || int(preds[0]) >= len(t.Classes) {
		return "", core.Errorf(core.StageEvaluate, core.ErrorCodeInternal, "unexpected tree output %v", preds)
	}
	return t.Classes[preds[0]], nil
}

// String 返回 golearn 打印的树结构；未训练时为空。
func (t *DecisionTree) String() string {
	if t.clf == nil || t.clf.RootNode == nil {
		return ""
	}
	return t.clf.String()
}

func (t *DecisionTree) attach(clf *trees.CARTDecisionTreeClassifier, rows [][]float64, labels []int64) {
	counts := make([]int, len(t.Classes))
	for _, l := range labels {
		counts[l]++
	}
	t.majority = 0
	for i, c := range counts {
		if c > counts[t.majority] {
			t.majority = int64(i)
		}
	}

	// 真正的切分会把训练样本分到两侧
	root := clf.RootNode
	left := 0
	for _, r := range rows {
		if r[root.Feature] < root.Threshold {
			left++
		}
	}
	t.stump = root.Left == nil && root.Right == nil && (left == 0 || left == len(rows))
	t.clf = clf
}

// instances 把特征矩阵和整数标签装入 DenseInstances，类别列为 FloatAttribute。
func instances(names []string, rows [][]float64, labels []int64) (*base.DenseInstances, error) {
	grid := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(names))
	for i, name := range names {
		specs[i] = grid.AddAttribute(base.NewFloatAttribute(name))
	}
	classAttr := base.NewFloatAttribute(classAttribute)
	classSpec := grid.AddAttribute(classAttr)
	if err := grid.AddClassAttribute(classAttr); err != nil {
		return nil, core.WrapError(core.StageTrain, core.ErrorCodeInternal, "class attribute", err)
	}
	if err := grid.Extend(len(rows)); err != nil {
		return nil, core.WrapError(core.StageTrain, core.ErrorCodeInternal, "allocate rows", err)
	}
	for i, row := range rows {
		for j, v := range row {
			grid.Set(specs[j], i, base.PackFloatToBytes(v))
		}
		grid.Set(classSpec, i, base.PackFloatToBytes(float64(labels[i])))
	}
	return grid, nil
}

func classNames() []string {
	out := make([]string, len(core.ActivityClasses))
	for i, c := range core.ActivityClasses {
		out[i] = string(c)
	}
	return out
}

func classCode(classes []string, label string) (int64, bool) {
	for i, c := range classes {
		if c == label {
			return int64(i), true
		}
	}
	return 0, false
}

func classLabels(classes []string) []int64 {
	out := make([]int64, len(classes))
	for i := range classes {
		out[i] = int64(i)
	}
	return out
}

func featureNames(names []string, n int) []string {
	if len(names) == n {
		return append([]string(nil), names...)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("f%d", i)
	}
	return out
}

// golearnDepth 转换深度约定：golearn 用 -1 表示不限。
func golearnDepth(d int) int64 {
	if d <= 0 {
		return -1
	}
	return int64(d)
}
