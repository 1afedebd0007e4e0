package pipeline

import (
	"context"

	"github.com/rushteam/segkit/core"
)

// Kind 用于标记 Node 所属阶段，方便观测/错误归因（例如按阶段打点）。
type Kind string

const (
	KindLoad      Kind = "load"      // 读取：把分隔符文件读入内存
	KindNormalize Kind = "normalize" // 清洗：列名映射、类型转换
	KindLabel     Kind = "label"     // 打标：计数、内连接、活跃度标签
	KindSplit     Kind = "split"     // 切分：分层抽样训练/测试集
	KindTrain     Kind = "train"     // 训练：拟合分类模型
	KindEvaluate  Kind = "evaluate"  // 评估：预测、混淆矩阵、准确率
	KindExport    Kind = "export"    // 导出：结果文件与标签发布
)

// Stage 返回该阶段对应的错误归属；label 阶段的错误归为 join。
func (k Kind) Stage() string {
	switch k {
	case KindLabel:
		return core.StageJoin
	case "":
		return ""
	default:
		return string(k)
	}
}

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"读写 RunContext"的形态：每个 Node 消费前序阶段的输出并写入自己的结果。
type Node interface {
	Name() string
	Kind() Kind

	Process(ctx context.Context, rctx *core.RunContext) error
}
