// Package metrics 采集批处理运行指标，并以 node-exporter textfile 的格式落盘。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/pipeline"
)

// Collector 是挂在 Pipeline 上的 Hook，使用独立的 Registry，不污染全局默认注册表。
type Collector struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	rows          *prometheus.GaugeVec
	accuracy      prometheus.Gauge
	confusion     *prometheus.GaugeVec
	lastRun       prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

var _ pipeline.Hook = (*Collector)(nil)

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "segkit_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: prometheus.DefBuckets,
		}, []string{"node", "kind"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "segkit_stage_failures_total",
			Help: "Number of failed pipeline stages",
		}, []string{"node", "stage"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "segkit_rows",
			Help: "Row counts produced by the pipeline stages",
		}, []string{"dataset"}),
		accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "segkit_model_accuracy",
			Help: "Accuracy of the activity classifier on the test set",
		}),
		confusion: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "segkit_confusion_matrix",
			Help: "Confusion matrix cells on the test set",
		}, []string{"actual", "predicted"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "segkit_last_run_timestamp_seconds",
			Help: "Unix time of the last finished run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "segkit_last_run_success",
			Help: "1 if the last run succeeded, 0 otherwise",
		}),
	}
	c.registry.MustRegister(
		c.stageDuration,
		c.stageFailures,
		c.rows,
		c.accuracy,
		c.confusion,
		c.lastRun,
		c.lastSuccess,
	)
	return c
}

// Registry 返回内部 Registry，便于测试或挂到 HTTP handler。
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) BeforeNode(pipeline.Node, *core.RunContext) {}

func (c *Collector) AfterNode(node pipeline.Node, rctx *core.RunContext, elapsed time.Duration, err error) {
	c.stageDuration.WithLabelValues(node.Name(), string(node.Kind())).Observe(elapsed.Seconds())
	if err != nil {
		stage := core.StageOf(err)
		if stage == "" {
			stage = node.Kind().Stage()
		}
		c.stageFailures.WithLabelValues(node.Name(), stage).Inc()
		return
	}

	switch node.Kind() {
	case pipeline.KindLoad:
		c.rows.WithLabelValues("segment_rows").Set(float64(rctx.SegmentTable.Len()))
		c.rows.WithLabelValues("rating_rows").Set(float64(rctx.RatingRows))
		c.rows.WithLabelValues("rating_users").Set(float64(len(rctx.RawCounts)))
	case pipeline.KindNormalize:
		c.rows.WithLabelValues("segments").Set(float64(len(rctx.Segments)))
	case pipeline.KindLabel:
		c.rows.WithLabelValues("joined").Set(float64(len(rctx.Joined)))
	case pipeline.KindSplit:
		c.rows.WithLabelValues("train").Set(float64(rctx.Train.Len()))
		c.rows.WithLabelValues("test").Set(float64(rctx.Test.Len()))
	case pipeline.KindEvaluate:
		if m := rctx.Metrics; m != nil {
			c.accuracy.Set(m.Accuracy)
			low, high := string(core.ActivityLow), string(core.ActivityHigh)
			c.confusion.WithLabelValues(low, low).Set(float64(m.TrueNegative))
			c.confusion.WithLabelValues(low, high).Set(float64(m.FalsePositive))
			c.confusion.WithLabelValues(high, low).Set(float64(m.FalseNegative))
			c.confusion.WithLabelValues(high, high).Set(float64(m.TruePositive))
		}
	}
}

// Finish 记录整次运行的结果。
func (c *Collector) Finish(err error) {
	c.lastRun.SetToCurrentTime()
	if err != nil {
		c.lastSuccess.Set(0)
	} else {
		c.lastSuccess.Set(1)
	}
}

// WriteTextfile 把当前指标写成 node-exporter textfile collector 可读取的文件。
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return core.WrapError(core.StageExport, core.ErrorCodeIO, "write metrics textfile", err)
	}
	return nil
}
