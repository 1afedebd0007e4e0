package export

import (
	"context"
	"io"
	"strconv"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/pipeline"
)

// ExportNode 写出两个报表文件。
//   - 读取：rctx.Joined, rctx.Metrics
//   - 写入：rctx.Outputs
type ExportNode struct {
	OutputDir string
}

func (n *ExportNode) Name() string        { return "export.csv" }
func (n *ExportNode) Kind() pipeline.Kind { return pipeline.KindExport }

func (n *ExportNode) Process(_ context.Context, rctx *core.RunContext) error {
	if rctx.Metrics == nil {
		return core.NewDomainError(core.StageExport, core.ErrorCodeInvalidInput, "no metrics to export")
	}
	dir := n.OutputDir
	if dir == "" {
		dir = "."
	}
	metrics := *rctx.Metrics
	paths, err := WriteBundle(dir,
		File{Name: core.SegmentsExportFile, Write: func(w io.Writer) error { return WriteSegments(w, rctx.Joined) }},
		File{Name: core.MetricsExportFile, Write: func(w io.Writer) error { return WriteMetrics(w, metrics) }},
	)
	if err != nil {
		return err
	}
	rctx.Outputs = append(rctx.Outputs, paths...)
	rctx.Logger.Info().Strs("files", paths).Int("users", len(rctx.Joined)).Msg("reports exported")
	return nil
}

// DefaultKeyPrefix 是用户标签在 KV 存储中的 key 前缀。
const DefaultKeyPrefix = "segkit:user:"

// StoreNode 把每个用户的分群与活跃度标签写入 KV 存储，供在线服务读取。
//   - 读取：rctx.Joined, rctx.Metrics
//
// 每个用户一个 Hash：cluster_id / activity_level / raw_rating_count。
// 最后用一次 BatchSet 写入本次运行的摘要，见 RunSummary。
type StoreNode struct {
	Store  core.KeyValueStore
	Prefix string
}

func (n *StoreNode) Name() string        { return "export.store" }
func (n *StoreNode) Kind() pipeline.Kind { return pipeline.KindExport }

func (n *StoreNode) Process(ctx context.Context, rctx *core.RunContext) error {
	if n.Store == nil {
		rctx.Logger.Debug().Msg("no label store configured, skip publish")
		return nil
	}
	prefix := n.Prefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if err := Publish(ctx, n.Store, prefix, rctx.Joined); err != nil {
		return err
	}
	if err := n.Store.BatchSet(ctx, RunSummary(prefix, rctx)); err != nil {
		return core.WrapError(core.StageStore, core.ErrorCodeIO, "set latest_run", err)
	}
	rctx.Logger.Info().Str("store", n.Store.Name()).Str("prefix", prefix).Int("users", len(rctx.Joined)).Msg("labels published")
	return nil
}

// Close 关闭底层存储。
func (n *StoreNode) Close() error {
	if n.Store == nil {
		return nil
	}
	return n.Store.Close()
}

// RunSummary 返回本次运行摘要的 key-value：
//
//	{prefix}latest_run           = RunID
//	{prefix}latest_run:users     = 发布的用户数
//	{prefix}latest_run:accuracy  = 测试集准确率（有评估结果时）
func RunSummary(prefix string, rctx *core.RunContext) map[string][]byte {
	kvs := map[string][]byte{
		prefix + "latest_run":       []byte(rctx.RunID),
		prefix + "latest_run:users": []byte(strconv.Itoa(len(rctx.Joined))),
	}
	if rctx.Metrics != nil {
		kvs[prefix+"latest_run:accuracy"] = []byte(FormatFloat(rctx.Metrics.Accuracy))
	}
	return kvs
}

// Publish 把用户标签写入 KV 存储。
func Publish(ctx context.Context, kv core.KeyValueStore, prefix string, joined []core.JoinedRecord) error {
	for _, r := range joined {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := prefix + strconv.FormatInt(r.UserID, 10)
		if err := kv.HMSet(ctx, key, map[string][]byte{
			"cluster_id":       []byte(r.ClusterID),
			"activity_level":   []byte(r.ActivityLevel),
			"raw_rating_count": []byte(strconv.Itoa(r.RawRatingCount)),
		}); err != nil {
			return core.WrapError(core.StageStore, core.ErrorCodeIO, "publish "+key, err)
		}
	}
	return nil
}
