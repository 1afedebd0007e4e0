package label

import "github.com/rushteam/segkit/core"

// InnerJoin 按 userId 内连接聚类记录与评分计数。
//
// 结果保持 segments 的原始顺序；只在一侧出现的用户被丢弃：
// 没有评分的聚类用户不会以 0 次计入，评分日志中没有聚类的用户也不会出现。
func InnerJoin(segments []core.UserSegmentRecord, counts []core.RawCount) []core.JoinedRecord {
	byUser := make(map[int64]int, len(counts))
	for _, c := range counts {
		byUser[c.UserID] = c.RawRatingCount
	}

	out := make([]core.JoinedRecord, 0, len(segments))
	for _, s := range segments {
		n, ok := byUser[s.UserID]
		if !ok {
			continue
		}
		out = append(out, core.JoinedRecord{
			UserSegmentRecord: s,
			RawRatingCount:    n,
		})
	}
	return out
}
