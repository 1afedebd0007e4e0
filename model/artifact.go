package model

import (
	"encoding/json"
	"os"

	"github.com/sjwhitworth/golearn/trees"

	"github.com/rushteam/segkit/core"
)

// treeArtifact 是决策树落盘的 JSON 结构；root 为 golearn 根节点的 JSON 编码。
type treeArtifact struct {
	Model        string          `json:"model"`
	Criterion    string          `json:"criterion"`
	MaxDepth     int             `json:"max_depth"`
	Seed         int64           `json:"seed"`
	FeatureNames []string        `json:"feature_names"`
	Classes      []string        `json:"classes"`
	Majority     int64           `json:"majority"`
	Stump        bool            `json:"stump,omitempty"`
	Root         json.RawMessage `json:"root"`
}

// SaveTree 把训练好的决策树写成 JSON 文件。
func SaveTree(path string, t *DecisionTree) error {
	if t == nil || t.clf == nil || t.clf.RootNode == nil {
		return core.NewDomainError(core.StageTrain, core.ErrorCodeInvalidInput, "decision tree is not fitted")
	}
	root, err := json.Marshal(t.clf.RootNode)
	if err != nil {
		return core.WrapError(core.StageTrain, core.ErrorCodeInternal, "encode tree", err)
	}
	data, err := json.MarshalIndent(treeArtifact{
		Model:        t.Name(),
		Criterion:    trees.GINI,
		MaxDepth:     t.MaxDepth,
		Seed:         t.Seed,
		FeatureNames: t.FeatureNames,
		Classes:      t.Classes,
		Majority:     t.majority,
		Stump:        t.stump,
		Root:         root,
	}, "", "  ")
	if err != nil {
		return core.WrapError(core.StageTrain, core.ErrorCodeInternal, "encode tree", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return core.WrapError(core.StageTrain, core.ErrorCodeIO, "write "+path, err)
	}
	return nil
}

func LoadTree(path string) (*DecisionTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(core.StageTrain, core.ErrorCodeIO, "read "+path, err)
	}
	var raw treeArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.WrapError(core.StageTrain, core.ErrorCodeInvalidInput, "decode tree", err)
	}
	if len(raw.Root) == 0 || len(raw.Classes) == 0 || len(raw.FeatureNames) == 0 {
		return nil, core.Errorf(core.StageTrain, core.ErrorCodeInvalidInput, "%s: missing root, classes or features", path)
	}
	if raw.Majority < 0 || int(raw.Majority) >= len(raw.Classes) {
		return nil, core.Errorf(core.StageTrain, core.ErrorCodeInvalidInput, "%s: majority class %d out of range", path, raw.Majority)
	}

	clf := trees.NewDecisionTreeClassifier(raw.Criterion, golearnDepth(raw.MaxDepth), classLabels(raw.Classes))
	if err := json.Unmarshal(raw.Root, &clf.RootNode); err != nil {
		return nil, core.WrapError(core.StageTrain, core.ErrorCodeInvalidInput, "decode tree root", err)
	}
	if clf.RootNode == nil {
		return nil, core.Errorf(core.StageTrain, core.ErrorCodeInvalidInput, "%s: empty root", path)
	}
	return &DecisionTree{
		MaxDepth:     raw.MaxDepth,
		Seed:         raw.Seed,
		FeatureNames: raw.FeatureNames,
		Classes:      raw.Classes,
		clf:          clf,
		majority:     raw.Majority,
		stump:        raw.Stump,
	}, nil
}
