// Package export 把运行结果写成两个报表 CSV，并可选地把用户标签发布到 KV 存储。
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rushteam/segkit/core"
)

// SegmentHeader 是用户分群导出文件的列顺序。
var SegmentHeader = []string{
	"userId",
	"Cluster_ID",
	"Total_Movies_Rated_ZScore",
	"Average_Rating_ZScore",
	"StdDev_Rating_ZScore",
	"Activity_Level",
}

// MetricsHeader 是指标导出文件的表头。
var MetricsHeader = []string{"Metric", "Value"}

// 指标导出文件的固定行名，顺序即输出顺序。
const (
	MetricAccuracy      = "Accuracy"
	MetricTrueNegative  = "True Negative (Low)"
	MetricFalsePositive = "False Positive"
	MetricFalseNegative = "False Negative"
	MetricTruePositive  = "True Positive (High)"
)

// WriteSegments 写出每个内连接用户一行，不含索引列。
func WriteSegments(w io.Writer, joined []core.JoinedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SegmentHeader); err != nil {
		return err
	}
	for _, r := range joined {
		if r.ClusterID == "" || r.ActivityLevel == "" {
			return core.Errorf(core.StageExport, core.ErrorCodeInvalidValue,
				"user %d has empty cluster or activity level", r.UserID)
		}
		if err := cw.Write([]string{
			strconv.FormatInt(r.UserID, 10),
			r.ClusterID,
			FormatFloat(r.TotalMoviesRatedZ),
			FormatFloat(r.AvgRatingZ),
			FormatFloat(r.StdDevRatingZ),
			string(r.ActivityLevel),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMetrics 写出固定 5 行的指标表。Value 列是浮点列，计数也带 ".0"。
func WriteMetrics(w io.Writer, m core.Metrics) error {
	rows := [][]string{
		MetricsHeader,
		{MetricAccuracy, FormatFloat(m.Accuracy)},
		{MetricTrueNegative, FormatFloat(float64(m.TrueNegative))},
		{MetricFalsePositive, FormatFloat(float64(m.FalsePositive))},
		{MetricFalseNegative, FormatFloat(float64(m.FalseNegative))},
		{MetricTruePositive, FormatFloat(float64(m.TruePositive))},
	}
	return csv.NewWriter(w).WriteAll(rows)
}
