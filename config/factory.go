package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/dataset"
	"github.com/rushteam/segkit/evaluate"
	"github.com/rushteam/segkit/export"
	"github.com/rushteam/segkit/feature"
	"github.com/rushteam/segkit/label"
	"github.com/rushteam/segkit/pipeline"
	"github.com/rushteam/segkit/pkg/conv"
	"github.com/rushteam/segkit/sample"
	"github.com/rushteam/segkit/store"
	"github.com/rushteam/segkit/train"
)

// 内置 Node 类型
const (
	NodeLoadSegments      = "load.segments"
	NodeLoadRatings       = "load.ratings"
	NodeNormalizeSegments = "normalize.segments"
	NodeLabelActivity     = "label.activity"
	NodeSplitStratified   = "split.stratified"
	NodeTrainTree         = "train.tree"
	NodeEvaluateConfusion = "evaluate.confusion"
	NodeExportCSV         = "export.csv"
	NodeExportStore       = "export.store"
)

var defaults core.RunDefaults = core.DefaultRunDefaults{}

func init() {
	Register(NodeLoadSegments, BuildLoadSegmentsNode)
	Register(NodeLoadRatings, BuildLoadRatingsNode)
	Register(NodeNormalizeSegments, BuildNormalizeSegmentsNode)
	Register(NodeLabelActivity, BuildActivityNode)
	Register(NodeSplitStratified, BuildSplitNode)
	Register(NodeTrainTree, BuildTrainNode)
	Register(NodeEvaluateConfusion, BuildEvaluateNode)
	Register(NodeExportCSV, BuildExportNode)
	Register(NodeExportStore, BuildStoreNode)
}

func BuildLoadSegmentsNode(cfg map[string]interface{}) (pipeline.Node, error) {
	path := conv.ConfigGet(cfg, "path", "")
	if path == "" {
		return nil, fmt.Errorf("path not found")
	}
	sep, err := conv.ConfigGetRune(cfg, "separator", defaults.DefaultSegmentSeparator())
	if err != nil {
		return nil, err
	}
	return &dataset.LoadSegmentsNode{Path: path, Separator: sep}, nil
}

func BuildLoadRatingsNode(cfg map[string]interface{}) (pipeline.Node, error) {
	path := conv.ConfigGet(cfg, "path", "")
	if path == "" {
		return nil, fmt.Errorf("path not found")
	}
	sep, err := conv.ConfigGetRune(cfg, "separator", defaults.DefaultRatingsSeparator())
	if err != nil {
		return nil, err
	}
	return &dataset.LoadRatingsNode{Path: path, Separator: sep}, nil
}

func BuildNormalizeSegmentsNode(map[string]interface{}) (pipeline.Node, error) {
	return &dataset.NormalizeSegmentsNode{}, nil
}

// BuildActivityNode 支持两种规则：threshold（默认 50）或 CEL 表达式 expr。
func BuildActivityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	if expr := conv.ConfigGet(cfg, "expr", ""); expr != "" {
		rule, err := label.NewExprRule(expr)
		if err != nil {
			return nil, err
		}
		return &label.ActivityNode{Rule: rule}, nil
	}
	threshold := conv.ConfigGetInt64(cfg, "threshold", int64(defaults.DefaultActivityThreshold()))
	return &label.ActivityNode{Rule: label.ThresholdRule{Threshold: int(threshold)}}, nil
}

func BuildSplitNode(cfg map[string]interface{}) (pipeline.Node, error) {
	names := conv.SliceAnyToString(cfg["features"])
	extractor, err := feature.NewExtractor(names...)
	if err != nil {
		return nil, err
	}
	testSize := conv.ConfigGetFloat64(cfg, "test_size", defaults.DefaultTestSize())
	if testSize <= 0 || testSize >= 1 {
		return nil, fmt.Errorf("test_size must be in (0, 1), got %v", testSize)
	}
	return &sample.SplitNode{
		Extractor: extractor,
		TestSize:  testSize,
		Seed:      conv.ConfigGetInt64(cfg, "seed", defaults.DefaultSeed()),
	}, nil
}

func BuildTrainNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &train.TrainNode{
		MaxDepth:  int(conv.ConfigGetInt64(cfg, "max_depth", int64(defaults.DefaultMaxDepth()))),
		Seed:      conv.ConfigGetInt64(cfg, "seed", defaults.DefaultSeed()),
		ModelPath: conv.ConfigGet(cfg, "model_path", ""),
	}, nil
}

func BuildEvaluateNode(map[string]interface{}) (pipeline.Node, error) {
	return &evaluate.EvaluateNode{}, nil
}

func BuildExportNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &export.ExportNode{OutputDir: conv.ConfigGet(cfg, "output_dir", ".")}, nil
}

// BuildStoreNode 构建标签发布节点，backend 为 memory 或 redis。
// redis 在构建时即建立连接并 PING，连接失败直接返回错误。
func BuildStoreNode(cfg map[string]interface{}) (pipeline.Node, error) {
	prefix := conv.ConfigGet(cfg, "prefix", export.DefaultKeyPrefix)
	switch backend := conv.ConfigGet(cfg, "backend", "memory"); backend {
	case "memory":
		return &export.StoreNode{Store: store.NewMemoryStore(), Prefix: prefix}, nil
	case "redis":
		addr := conv.ConfigGet(cfg, "addr", "")
		if addr == "" {
			return nil, fmt.Errorf("addr not found")
		}
		timeout := 5 * time.Second
		if sec := conv.ConfigGetInt64(cfg, "timeout", 5); sec > 0 {
			timeout = time.Duration(sec) * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     addr,
			Password: conv.ConfigGet(cfg, "password", ""),
			DB:       int(conv.ConfigGetInt64(cfg, "db", 0)),
		})
		if err != nil {
			return nil, err
		}
		return &export.StoreNode{Store: rs, Prefix: prefix}, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", backend)
	}
}
