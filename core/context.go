package core

import "github.com/rs/zerolog"

// RunContext 承载一次批处理运行的全部中间状态，在 Pipeline 的各个 Node 之间透传。
//
// 每个阶段只读取前序阶段写入的字段，并写入自己的输出：
//
//	load       → SegmentTable, RawCounts, RatingRows
//	normalize  → Segments
//	label      → Joined
//	split      → Train, Test
//	train      → Model
//	evaluate   → Predictions, Metrics
//	export     → Outputs
type RunContext struct {
	RunID  string
	Logger zerolog.Logger

	// SegmentTable 是尚未清洗的聚类导出表
	SegmentTable *Table

	Segments   []UserSegmentRecord
	RawCounts  []RawCount
	RatingRows int

	Joined []JoinedRecord

	Train Dataset
	Test  Dataset

	Model Classifier

	Predictions []string
	Metrics     *Metrics

	// Outputs 是已经落盘的文件路径
	Outputs []string
}

// NewRunContext 创建运行上下文，logger 会附带 run_id 字段。
func NewRunContext(runID string, logger zerolog.Logger) *RunContext {
	return &RunContext{
		RunID:  runID,
		Logger: logger.With().Str("run_id", runID).Logger(),
	}
}
