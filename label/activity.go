package label

import (
	"fmt"
	"strconv"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/pkg/dsl"
)

// Rule 决定一个用户的活跃度标签。
type Rule interface {
	Name() string
	Classify(rec core.JoinedRecord) (core.ActivityLevel, error)
}

// ThresholdRule 是默认规则：评分条数严格大于 Threshold 为 High，否则为 Low。
type ThresholdRule struct {
	Threshold int
}

func (r ThresholdRule) Name() string { return "threshold(" + strconv.Itoa(r.Threshold) + ")" }

func (r ThresholdRule) Classify(rec core.JoinedRecord) (core.ActivityLevel, error) {
	if rec.RawRatingCount > r.Threshold {
		return core.ActivityHigh, nil
	}
	return core.ActivityLow, nil
}

// ExprRule 用 CEL 表达式判定活跃度：表达式为 true 时为 High。
//
// 可用变量见 dsl.UserVars，例如：
//
//	user.raw_rating_count > 50
//	user.raw_rating_count > 30 && user.cluster_id != "cluster_3"
type ExprRule struct {
	program *dsl.Program
}

// NewExprRule 编译表达式，语法或类型错误在这里返回。
func NewExprRule(expr string) (*ExprRule, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprRule{program: prg}, nil
}

func (r *ExprRule) Name() string { return "expr(" + r.program.Source() + ")" }

func (r *ExprRule) Classify(rec core.JoinedRecord) (core.ActivityLevel, error) {
	high, err := r.program.Evaluate(dsl.UserVars(rec))
	if err != nil {
		return "", fmt.Errorf("user %d: %w", rec.UserID, err)
	}
	if high {
		return core.ActivityHigh, nil
	}
	return core.ActivityLow, nil
}

// Assign 为每条记录写入活跃度标签。
func Assign(records []core.JoinedRecord, rule Rule) error {
	for i := range records {
		lvl, err := rule.Classify(records[i])
		if err != nil {
			return core.WrapError(core.StageJoin, core.ErrorCodeInvalidValue, "classify activity with "+rule.Name(), err)
		}
		records[i].ActivityLevel = lvl
	}
	return nil
}

// Build 完成整个打标阶段：内连接 + 打标签。
// 内连接结果为空时返回 join 阶段错误。
func Build(segments []core.UserSegmentRecord, counts []core.RawCount, rule Rule) ([]core.JoinedRecord, error) {
	joined := InnerJoin(segments, counts)
	if len(joined) == 0 {
		return nil, core.Errorf(core.StageJoin, core.ErrorCodeEmptyResult,
			"no user appears in both inputs (%d segment users, %d rating users)", len(segments), len(counts))
	}
	if err := Assign(joined, rule); err != nil {
		return nil, err
	}
	return joined, nil
}
