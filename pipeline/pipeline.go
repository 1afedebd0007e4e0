package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rushteam/segkit/core"
)

// Hook 在每个 Node 执行前后被调用，用于指标采集等旁路逻辑。
type Hook interface {
	BeforeNode(node Node, rctx *core.RunContext)
	AfterNode(node Node, rctx *core.RunContext, elapsed time.Duration, err error)
}

// Pipeline 是 segkit 的核心抽象：把批处理拆成按顺序执行的 Node 链。
// 任一 Node 失败即中止，不做重试。
type Pipeline struct {
	Nodes []Node
	Hooks []Hook
}

func (p *Pipeline) Run(ctx context.Context, rctx *core.RunContext) error {
	log := rctx.Logger
	started := time.Now()
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, h := range p.Hooks {
			h.BeforeNode(node, rctx)
		}
		t0 := time.Now()
		err := node.Process(ctx, rctx)
		elapsed := time.Since(t0)
		if err != nil {
			err = attachStage(node, err)
		}
		for _, h := range p.Hooks {
			h.AfterNode(node, rctx, elapsed, err)
		}
		if err != nil {
			log.Error().Err(err).
				Str("node", node.Name()).
				Str("kind", string(node.Kind())).
				Dur("duration", elapsed).
				Msg("stage failed")
			return err
		}
		log.Info().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Dur("duration", elapsed).
			Msg("stage done")
	}
	log.Info().Dur("duration", time.Since(started)).Int("nodes", len(p.Nodes)).Msg("pipeline finished")
	return nil
}

// attachStage 为非领域错误补充阶段信息，领域错误保持原样。
func attachStage(node Node, err error) error {
	if core.IsDomainError(err) {
		return err
	}
	return core.WrapError(node.Kind().Stage(), core.ErrorCodeInternal, node.Name(), err)
}

// Close 关闭实现了 io.Closer 的 Node（例如持有存储连接的发布节点）。
func (p *Pipeline) Close() error {
	var errs []error
	for _, node := range p.Nodes {
		if c, ok := node.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
