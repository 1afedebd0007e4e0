package core

// RunDefaults 是批处理流水线的默认参数接口，节点在配置缺省时从这里取值。
type RunDefaults interface {
	// DefaultActivityThreshold 返回活跃度阈值（评分条数严格大于阈值为 High）
	DefaultActivityThreshold() int

	// DefaultTestSize 返回测试集比例
	DefaultTestSize() float64

	// DefaultSeed 返回切分与建树使用的随机种子
	DefaultSeed() int64

	// DefaultMaxDepth 返回决策树最大深度
	DefaultMaxDepth() int

	// DefaultSegmentSeparator 返回聚类导出文件的分隔符
	DefaultSegmentSeparator() rune

	// DefaultRatingsSeparator 返回评分日志的分隔符
	DefaultRatingsSeparator() rune

	// DefaultFeatures 返回模型使用的特征列
	DefaultFeatures() []string
}

// 输出文件名
const (
	SegmentsExportFile = "1_Segmented_Users_for_PowerBI.csv"
	MetricsExportFile  = "2_Prediction_Metrics_for_PowerBI.csv"
)

// DefaultRunDefaults 是默认实现。
type DefaultRunDefaults struct{}

func (DefaultRunDefaults) DefaultActivityThreshold() int {
	return 50
}

func (DefaultRunDefaults) DefaultTestSize() float64 {
	return 0.3
}

func (DefaultRunDefaults) DefaultSeed() int64 {
	return 42
}

func (DefaultRunDefaults) DefaultMaxDepth() int {
	return 5
}

func (DefaultRunDefaults) DefaultSegmentSeparator() rune {
	return ';'
}

func (DefaultRunDefaults) DefaultRatingsSeparator() rune {
	return ','
}

func (DefaultRunDefaults) DefaultFeatures() []string {
	return []string{"avg_rating_z", "stddev_rating_z"}
}
