package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/segkit/core"
)

// Config 是 Pipeline 的配置结构（支持 YAML/JSON）。
type Config struct {
	Pipeline struct {
		Name  string       `yaml:"name" json:"name"`
		Nodes []NodeConfig `yaml:"nodes" json:"nodes" validate:"required,min=1,dive"`
	} `yaml:"pipeline" json:"pipeline"`

	// MetricsTextfile 非空时，运行结束后把 Prometheus 指标写入该文件
	MetricsTextfile string `yaml:"metrics_textfile" json:"metrics_textfile"`
}

// NodeConfig 是单个 Node 的配置。
type NodeConfig struct {
	Type   string                 `yaml:"type" json:"type" validate:"required"` // load.segments / label.activity / train.tree 等
	Config map[string]interface{} `yaml:"config" json:"config"`                 // Node 特定配置
}

var validate = validator.New()

// LoadFromYAML 从 YAML 文件加载 Pipeline 配置。
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeIO, "read file", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeInvalidInput, "parse yaml", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromJSON 从 JSON 文件加载 Pipeline 配置。
func LoadFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeIO, "read file", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeInvalidInput, "parse json", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置结构。
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return core.WrapError(core.StageConfig, core.ErrorCodeInvalidInput, "invalid pipeline config", err)
	}
	return nil
}

// Node 返回第一个指定类型的 Node 配置，用于在运行前覆盖个别参数。
func (c *Config) Node(nodeType string) (*NodeConfig, bool) {
	for i := range c.Pipeline.Nodes {
		if c.Pipeline.Nodes[i].Type == nodeType {
			return &c.Pipeline.Nodes[i], true
		}
	}
	return nil, false
}

// Set 写入单个 Node 参数。
func (nc *NodeConfig) Set(key string, value interface{}) {
	if nc.Config == nil {
		nc.Config = make(map[string]interface{})
	}
	nc.Config[key] = value
}

// BuildPipeline 根据配置构建 Pipeline（需要 NodeFactory 注册 Node 构建器）。
// 注意：factory 在独立的 config 包中，避免循环依赖。
func (c *Config) BuildPipeline(factory *NodeFactory) (*Pipeline, error) {
	nodes := make([]Node, 0, len(c.Pipeline.Nodes))

	for _, nc := range c.Pipeline.Nodes {
		node, err := factory.Build(nc.Type, nc.Config)
		if err != nil {
			return nil, core.WrapError(core.StageConfig, core.ErrorCodeInvalidInput, "build node "+nc.Type, err)
		}
		nodes = append(nodes, node)
	}

	return &Pipeline{Nodes: nodes}, nil
}

// NodeBuilder 根据 Node 配置构建 Node。
type NodeBuilder func(config map[string]interface{}) (Node, error)

// NodeFactory 用于根据配置构建 Node 实例。
type NodeFactory struct {
	builders map[string]NodeBuilder
}

func NewNodeFactory() *NodeFactory {
	return &NodeFactory{
		builders: make(map[string]NodeBuilder),
	}
}

// Register 注册 Node 构建器。
func (f *NodeFactory) Register(nodeType string, builder NodeBuilder) {
	f.builders[nodeType] = builder
}

// Types 返回已注册的 Node 类型（排序后）。
func (f *NodeFactory) Types() []string {
	out := make([]string, 0, len(f.builders))
	for t := range f.builders {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Build 根据类型和配置构建 Node。
func (f *NodeFactory) Build(nodeType string, config map[string]interface{}) (Node, error) {
	builder, ok := f.builders[nodeType]
	if !ok {
		return nil, fmt.Errorf("unknown node type: %s", nodeType)
	}
	return builder(config)
}
