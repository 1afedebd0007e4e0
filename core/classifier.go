package core

// Classifier 是训练后模型的领域接口：输入特征向量，输出类别。
//
// 实现：
//   - model.DecisionTree（CART）
type Classifier interface {
	// Name 返回模型名称（用于日志/监控）
	Name() string

	// Predict 返回单条样本的预测类别
	Predict(features []float64) (string, error)
}
