package label

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/segkit/core"
)

func ratingsFor(counts map[int64]int) []core.RatingRecord {
	var out []core.RatingRecord
	for uid, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, core.RatingRecord{UserID: uid, MovieID: int64(i + 1), Rating: 4})
		}
	}
	return out
}

func segment(uid int64, cluster string) core.UserSegmentRecord {
	return core.UserSegmentRecord{UserID: uid, ClusterID: cluster}
}

func TestCountRatings(t *testing.T) {
	counts := CountRatings(ratingsFor(map[int64]int{3: 80, 1: 60, 2: 10}))
	assert.Equal(t, []core.RawCount{
		{UserID: 1, RawRatingCount: 60},
		{UserID: 2, RawRatingCount: 10},
		{UserID: 3, RawRatingCount: 80},
	}, counts)

	c := NewCounter()
	c.Add(core.RatingRecord{UserID: 7})
	c.Add(core.RatingRecord{UserID: 7})
	assert.Equal(t, 2, c.Rows())
	assert.Equal(t, 1, c.Users())
}

func TestInnerJoin_DropsUnmatchedUsers(t *testing.T) {
	segments := []core.UserSegmentRecord{segment(4, "B"), segment(1, "A"), segment(2, "B"), segment(3, "A")}
	counts := []core.RawCount{
		{UserID: 1, RawRatingCount: 60},
		{UserID: 2, RawRatingCount: 10},
		{UserID: 3, RawRatingCount: 80},
		{UserID: 99, RawRatingCount: 5},
	}

	joined := InnerJoin(segments, counts)
	require.Len(t, joined, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{joined[0].UserID, joined[1].UserID, joined[2].UserID})
	assert.Equal(t, "B", joined[1].ClusterID)
	assert.Equal(t, 10, joined[1].RawRatingCount)
}

func TestThresholdRule_Boundary(t *testing.T) {
	rule := ThresholdRule{Threshold: 50}
	tests := []struct {
		count int
		want  core.ActivityLevel
	}{
		{count: 0, want: core.ActivityLow},
		{count: 49, want: core.ActivityLow},
		{count: 50, want: core.ActivityLow},
		{count: 51, want: core.ActivityHigh},
		{count: 500, want: core.ActivityHigh},
	}
	for _, tt := range tests {
		got, err := rule.Classify(core.JoinedRecord{RawRatingCount: tt.count})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "count=%d", tt.count)
	}
}

func TestBuild_Example(t *testing.T) {
	segments := []core.UserSegmentRecord{segment(1, "A"), segment(2, "B"), segment(3, "A"), segment(4, "B")}
	counts := CountRatings(ratingsFor(map[int64]int{1: 60, 2: 10, 3: 80}))

	joined, err := Build(segments, counts, ThresholdRule{Threshold: 50})
	require.NoError(t, err)
	require.Len(t, joined, 3)

	got := map[int64]core.ActivityLevel{}
	for _, r := range joined {
		got[r.UserID] = r.ActivityLevel
	}
	assert.Equal(t, map[int64]core.ActivityLevel{
		1: core.ActivityHigh,
		2: core.ActivityLow,
		3: core.ActivityHigh,
	}, got)
}

func TestBuild_EmptyJoin(t *testing.T) {
	_, err := Build([]core.UserSegmentRecord{segment(1, "A")}, []core.RawCount{{UserID: 2, RawRatingCount: 3}}, ThresholdRule{Threshold: 50})
	require.Error(t, err)
	assert.Equal(t, core.StageJoin, core.StageOf(err))
}

func TestExprRule_MatchesThreshold(t *testing.T) {
	rule, err := NewExprRule("user.raw_rating_count > 50")
	require.NoError(t, err)

	for _, n := range []int{10, 50, 51, 80} {
		want, _ := ThresholdRule{Threshold: 50}.Classify(core.JoinedRecord{RawRatingCount: n})
		got, err := rule.Classify(core.JoinedRecord{RawRatingCount: n})
		require.NoError(t, err)
		assert.Equal(t, want, got, "count=%d", n)
	}
}

func TestActivityNode(t *testing.T) {
	rctx := core.NewRunContext("t", zerolog.Nop())
	rctx.Segments = []core.UserSegmentRecord{segment(1, "A"), segment(2, "B")}
	rctx.RawCounts = []core.RawCount{{UserID: 1, RawRatingCount: 51}, {UserID: 2, RawRatingCount: 50}}

	node := &ActivityNode{}
	require.NoError(t, node.Process(context.Background(), rctx))
	require.Len(t, rctx.Joined, 2)
	assert.Equal(t, core.ActivityHigh, rctx.Joined[0].ActivityLevel)
	assert.Equal(t, core.ActivityLow, rctx.Joined[1].ActivityLevel)
}
