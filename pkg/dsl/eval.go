// Package dsl 提供基于 CEL (Common Expression Language) 的规则表达式。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/segkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("user", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的规则表达式，可以多次求值。
//
// 表达式语法（CEL 标准语法），变量 user 的字段见 UserVars：
//   - 数值：user.raw_rating_count > 50
//   - 逻辑：user.raw_rating_count > 30 && user.avg_rating_z > 0.5
//   - 字符串：user.cluster_id == "cluster_2"
type Program struct {
	source string
	prg    cel.Program
}

// Compile 编译表达式；表达式为空或语法错误时返回错误。
func Compile(expr string) (*Program, error) {
	if expr == "" {
		return nil, core.NewDomainError(core.StageConfig, core.ErrorCodeInvalidInput, "empty rule expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeInternal, "init cel env", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeInvalidInput, "compile "+expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, core.WrapError(core.StageConfig, core.ErrorCodeInvalidInput, "program "+expr, err)
	}
	return &Program{source: expr, prg: prg}, nil
}

// Source 返回表达式原文
func (p *Program) Source() string { return p.source }

// Evaluate 对给定变量求值，表达式结果必须是布尔值。
func (p *Program) Evaluate(vars map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		// 访问不存在的字段时 CEL 会返回错误
		return false, fmt.Errorf("eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// UserVars 把一条连接后的记录转换为表达式变量 user。
func UserVars(rec core.JoinedRecord) map[string]any {
	return map[string]any{
		"user": map[string]any{
			"user_id":              rec.UserID,
			"cluster_id":           rec.ClusterID,
			"raw_rating_count":     int64(rec.RawRatingCount),
			"total_movies_rated_z": rec.TotalMoviesRatedZ,
			"avg_rating_z":         rec.AvgRatingZ,
			"stddev_rating_z":      rec.StdDevRatingZ,
		},
	}
}
