package core

// ActivityLevel 是用户活跃度标签，也是分类模型的预测目标。
type ActivityLevel string

const (
	ActivityLow  ActivityLevel = "Low"
	ActivityHigh ActivityLevel = "High"
)

// ActivityClasses 是标签的固定顺序：[Low, High]。
// 混淆矩阵的行/列都按此顺序排列。
var ActivityClasses = []ActivityLevel{ActivityLow, ActivityHigh}

// UserSegmentRecord 是聚类导出中的一行，每个用户一条。
// 三个 Z-score 由上游聚类工具计算，这里只读取。
type UserSegmentRecord struct {
	UserID            int64
	ClusterID         string
	TotalMoviesRatedZ float64
	AvgRatingZ        float64
	StdDevRatingZ     float64
}

// RatingRecord 是原始评分日志中的一行。
type RatingRecord struct {
	UserID  int64
	MovieID int64
	Rating  float64
}

// RawCount 是单个用户的原始评分条数。
type RawCount struct {
	UserID         int64
	RawRatingCount int
}

// JoinedRecord 是 UserSegmentRecord 与 RawCount 按 userId 内连接的结果。
type JoinedRecord struct {
	UserSegmentRecord
	RawRatingCount int
	ActivityLevel  ActivityLevel
}

// Sample 是进入模型的一条样本。
type Sample struct {
	UserID   int64
	Features []float64
	Label    string
}

// Dataset 是一组样本及其特征名、类别集合。
// Classes 按字典序排列，模型预测并列时取靠前的类别。
type Dataset struct {
	FeatureNames []string
	Classes      []string
	Samples      []Sample
}

// Len 返回样本数
func (d Dataset) Len() int { return len(d.Samples) }

// Labels 返回所有样本的标签
func (d Dataset) Labels() []string {
	out := make([]string, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.Label
	}
	return out
}

// ClassCounts 返回每个类别的样本数
func (d Dataset) ClassCounts() map[string]int {
	counts := make(map[string]int, len(d.Classes))
	for _, s := range d.Samples {
		counts[s.Label]++
	}
	return counts
}

// Metrics 是测试集上的评估结果。
// 混淆矩阵顺序为 [Low, High]：行 = 实际，列 = 预测。
type Metrics struct {
	Accuracy      float64
	TrueNegative  int // 实际 Low，预测 Low
	FalsePositive int // 实际 Low，预测 High
	FalseNegative int // 实际 High，预测 Low
	TruePositive  int // 实际 High，预测 High
}

// Total 返回测试样本总数
func (m Metrics) Total() int {
	return m.TrueNegative + m.FalsePositive + m.FalseNegative + m.TruePositive
}

// Matrix 返回 2x2 混淆矩阵
func (m Metrics) Matrix() [2][2]int {
	return [2][2]int{
		{m.TrueNegative, m.FalsePositive},
		{m.FalseNegative, m.TruePositive},
	}
}
