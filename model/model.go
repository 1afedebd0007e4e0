package model

import "github.com/rushteam/segkit/core"

// Model 是可训练分类模型的最小抽象：先 Fit，再对单条特征向量 Predict。
// 具体实现可以是本地模型（决策树）或其它分类器。
type Model interface {
	core.Classifier

	Fit(ds core.Dataset) error
}

// PredictAll 对样本集逐条预测，返回与样本顺序一致的类别。
func PredictAll(c core.Classifier, ds core.Dataset) ([]string, error) {
	out := make([]string, ds.Len())
	for i, s := range ds.Samples {
		p, err := c.Predict(s.Features)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
