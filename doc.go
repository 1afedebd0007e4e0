// Package segkit 是一个用户分群活跃度工具包（Segment Kit）。
//
// 设计要点：
// - Pipeline-first: 批处理通过 Node 串联（Load → Normalize → Label → Split → Train → Evaluate → Export）
// - RunContext 透传: 每个 Node 只读前序阶段的输出，写入自己的结果
// - 错误带阶段: 任一 Node 失败即中止，错误携带出错阶段，不产生部分输出
// - Node 可扩展: 自定义 Node 通过 config.Register 注册后即可被配置驱动
package segkit

import "github.com/rushteam/segkit/pipeline"

// 轻量 facade：便于用户直接 import "segkit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindLoad      = pipeline.KindLoad
	KindNormalize = pipeline.KindNormalize
	KindLabel     = pipeline.KindLabel
	KindSplit     = pipeline.KindSplit
	KindTrain     = pipeline.KindTrain
	KindEvaluate  = pipeline.KindEvaluate
	KindExport    = pipeline.KindExport
)
