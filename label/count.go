package label

import (
	"sort"

	"github.com/rushteam/segkit/core"
)

// Counter 按 userId 累加评分条数，可边读边计数。
type Counter struct {
	counts map[int64]int
	rows   int
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[int64]int)}
}

// Add 计入一条评分记录。
func (c *Counter) Add(rec core.RatingRecord) {
	c.counts[rec.UserID]++
	c.rows++
}

// Rows 返回已计入的记录数
func (c *Counter) Rows() int { return c.rows }

// Users 返回出现过的用户数
func (c *Counter) Users() int { return len(c.counts) }

// Counts 返回每个用户的原始评分条数，按 userId 升序。
func (c *Counter) Counts() []core.RawCount {
	out := make([]core.RawCount, 0, len(c.counts))
	for uid, n := range c.counts {
		out = append(out, core.RawCount{UserID: uid, RawRatingCount: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// CountRatings 统计每个用户的评分条数。
func CountRatings(ratings []core.RatingRecord) []core.RawCount {
	c := NewCounter()
	for _, r := range ratings {
		c.Add(r)
	}
	return c.Counts()
}
