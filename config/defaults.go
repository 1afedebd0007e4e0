// Package config 把 Pipeline 配置（YAML/JSON 或内置默认值）装配成可运行的 Node 链。
package config

import (
	"path/filepath"
	"strings"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/pipeline"
)

// Inputs 是一次运行的外部输入。零值字段使用内置默认值。
type Inputs struct {
	SegmentsPath string
	RatingsPath  string
	OutputDir    string

	SegmentSeparator rune
	RatingsSeparator rune

	// ModelPath 非空时保存训练好的决策树
	ModelPath string

	// RedisAddr 非空时追加 export.store 节点，把标签发布到 Redis
	RedisAddr string

	MetricsTextfile string
}

// DefaultConfig 构建标准流水线：
// load → normalize → label → split → train → evaluate → export。
func DefaultConfig(in Inputs) *pipeline.Config {
	segSep := in.SegmentSeparator
	if segSep == 0 {
		segSep = defaults.DefaultSegmentSeparator()
	}
	ratingSep := in.RatingsSeparator
	if ratingSep == 0 {
		ratingSep = defaults.DefaultRatingsSeparator()
	}
	outDir := in.OutputDir
	if outDir == "" {
		outDir = "."
	}

	features := make([]interface{}, 0, len(defaults.DefaultFeatures()))
	for _, f := range defaults.DefaultFeatures() {
		features = append(features, f)
	}

	cfg := &pipeline.Config{MetricsTextfile: in.MetricsTextfile}
	cfg.Pipeline.Name = "segkit"
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{
		{Type: NodeLoadSegments, Config: map[string]interface{}{"path": in.SegmentsPath, "separator": string(segSep)}},
		{Type: NodeLoadRatings, Config: map[string]interface{}{"path": in.RatingsPath, "separator": string(ratingSep)}},
		{Type: NodeNormalizeSegments},
		{Type: NodeLabelActivity, Config: map[string]interface{}{"threshold": defaults.DefaultActivityThreshold()}},
		{Type: NodeSplitStratified, Config: map[string]interface{}{
			"features":  features,
			"test_size": defaults.DefaultTestSize(),
			"seed":      defaults.DefaultSeed(),
		}},
		{Type: NodeTrainTree, Config: map[string]interface{}{
			"max_depth":  defaults.DefaultMaxDepth(),
			"seed":       defaults.DefaultSeed(),
			"model_path": in.ModelPath,
		}},
		{Type: NodeEvaluateConfusion},
		{Type: NodeExportCSV, Config: map[string]interface{}{"output_dir": outDir}},
	}
	if in.RedisAddr != "" {
		cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, pipeline.NodeConfig{
			Type:   NodeExportStore,
			Config: map[string]interface{}{"backend": "redis", "addr": in.RedisAddr},
		})
	}
	return cfg
}

// ApplyInputs 用命令行输入覆盖已加载配置中的对应参数，只覆盖非零值。
func ApplyInputs(cfg *pipeline.Config, in Inputs) {
	set := func(nodeType, key string, value interface{}) {
		if nc, ok := cfg.Node(nodeType); ok {
			nc.Set(key, value)
		}
	}
	if in.SegmentsPath != "" {
		set(NodeLoadSegments, "path", in.SegmentsPath)
	}
	if in.SegmentSeparator != 0 {
		set(NodeLoadSegments, "separator", string(in.SegmentSeparator))
	}
	if in.RatingsPath != "" {
		set(NodeLoadRatings, "path", in.RatingsPath)
	}
	if in.RatingsSeparator != 0 {
		set(NodeLoadRatings, "separator", string(in.RatingsSeparator))
	}
	if in.OutputDir != "" {
		set(NodeExportCSV, "output_dir", in.OutputDir)
	}
	if in.ModelPath != "" {
		set(NodeTrainTree, "model_path", in.ModelPath)
	}
	if in.RedisAddr != "" {
		if nc, ok := cfg.Node(NodeExportStore); ok {
			nc.Set("backend", "redis")
			nc.Set("addr", in.RedisAddr)
		} else {
			cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, pipeline.NodeConfig{
				Type:   NodeExportStore,
				Config: map[string]interface{}{"backend": "redis", "addr": in.RedisAddr},
			})
		}
	}
	if in.MetricsTextfile != "" {
		cfg.MetricsTextfile = in.MetricsTextfile
	}
}

// Load 按扩展名加载 YAML 或 JSON 配置，并校验所有 Node 类型均已注册。
func Load(path string) (*pipeline.Config, error) {
	var (
		cfg *pipeline.Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		cfg, err = pipeline.LoadFromJSON(path)
	default:
		cfg, err = pipeline.LoadFromYAML(path)
	}
	if err != nil {
		return nil, err
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeNotSupported, "validate "+path, err)
	}
	return cfg, nil
}

// Build 校验配置并构建 Pipeline。
func Build(cfg *pipeline.Config) (*pipeline.Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeNotSupported, "validate pipeline", err)
	}
	return cfg.BuildPipeline(DefaultFactory())
}
