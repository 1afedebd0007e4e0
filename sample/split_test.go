package sample

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/segkit/core"
)

func makeDataset(low, high int) core.Dataset {
	ds := core.Dataset{FeatureNames: []string{"x"}, Classes: []string{"High", "Low"}}
	id := int64(0)
	for i := 0; i < low; i++ {
		id++
		ds.Samples = append(ds.Samples, core.Sample{UserID: id, Features: []float64{float64(id)}, Label: "Low"})
	}
	for i := 0; i < high; i++ {
		id++
		ds.Samples = append(ds.Samples, core.Sample{UserID: id, Features: []float64{float64(id)}, Label: "High"})
	}
	return ds
}

func userIDs(ds core.Dataset) []int64 {
	out := make([]int64, ds.Len())
	for i, s := range ds.Samples {
		out[i] = s.UserID
	}
	return out
}

func TestStratifiedSplit_PreservesProportions(t *testing.T) {
	tests := []struct {
		low, high           int
		trainLow, trainHigh int
		testLow, testHigh   int
	}{
		{low: 10, high: 10, trainLow: 7, trainHigh: 7, testLow: 3, testHigh: 3},
		{low: 7, high: 3, trainLow: 5, trainHigh: 2, testLow: 2, testHigh: 1},
		{low: 70, high: 30, trainLow: 49, trainHigh: 21, testLow: 21, testHigh: 9},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.low, tt.high), func(t *testing.T) {
			train, test, err := StratifiedSplit(makeDataset(tt.low, tt.high), 0.3, 42)
			require.NoError(t, err)
			assert.Equal(t, map[string]int{"Low": tt.trainLow, "High": tt.trainHigh}, train.ClassCounts())
			assert.Equal(t, map[string]int{"Low": tt.testLow, "High": tt.testHigh}, test.ClassCounts())
			assert.Equal(t, tt.low+tt.high, train.Len()+test.Len())
		})
	}
}

func TestStratifiedSplit_Disjoint(t *testing.T) {
	train, test, err := StratifiedSplit(makeDataset(40, 25), 0.3, 42)
	require.NoError(t, err)

	seen := make(map[int64]bool)
	for _, id := range append(userIDs(train), userIDs(test)...) {
		assert.False(t, seen[id], "user %d in both partitions", id)
		seen[id] = true
	}
	assert.Len(t, seen, 65)
	assert.Equal(t, []string{"x"}, train.FeatureNames)
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	ds := makeDataset(40, 25)
	train1, test1, err := StratifiedSplit(ds, 0.3, 42)
	require.NoError(t, err)
	train2, test2, err := StratifiedSplit(ds, 0.3, 42)
	require.NoError(t, err)
	assert.Equal(t, userIDs(train1), userIDs(train2))
	assert.Equal(t, userIDs(test1), userIDs(test2))

	train3, _, err := StratifiedSplit(ds, 0.3, 7)
	require.NoError(t, err)
	assert.NotEqual(t, userIDs(train1), userIDs(train3))
}

func TestStratifiedSplit_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ds       core.Dataset
		testSize float64
		code     string
	}{
		{name: "single member class", ds: makeDataset(10, 1), testSize: 0.3, code: core.ErrorCodeInsufficientClass},
		{name: "test smaller than classes", ds: makeDataset(2, 2), testSize: 0.1, code: core.ErrorCodeInsufficientClass},
		{name: "only high", ds: makeDataset(0, 10), testSize: 0.3, code: core.ErrorCodeInsufficientClass},
		{name: "only low", ds: makeDataset(10, 0), testSize: 0.3, code: core.ErrorCodeInsufficientClass},
		{name: "empty", ds: core.Dataset{}, testSize: 0.3, code: core.ErrorCodeEmptyResult},
		{name: "bad test size", ds: makeDataset(5, 5), testSize: 1.5, code: core.ErrorCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := StratifiedSplit(tt.ds, tt.testSize, 42)
			require.Error(t, err)
			assert.Equal(t, core.StageSplit, core.StageOf(err))
			assert.Equal(t, tt.code, core.GetDomainError(err).Code)
		})
	}
}

func TestApproximateMode(t *testing.T) {
	assert.Equal(t, []int{2, 5}, approximateMode([]int{3, 7}, 7))
	assert.Equal(t, []int{1, 2}, approximateMode([]int{1, 2}, 3))
	assert.Equal(t, []int{0, 0}, approximateMode([]int{0, 0}, 3))
}

func TestSplitNode(t *testing.T) {
	rctx := core.NewRunContext("t", zerolog.Nop())
	for i := 0; i < 20; i++ {
		lvl := core.ActivityLow
		if i%2 == 0 {
			lvl = core.ActivityHigh
		}
		rctx.Joined = append(rctx.Joined, core.JoinedRecord{
			UserSegmentRecord: core.UserSegmentRecord{UserID: int64(i + 1), ClusterID: "c", AvgRatingZ: float64(i)},
			RawRatingCount:    i,
			ActivityLevel:     lvl,
		})
	}

	node := &SplitNode{TestSize: 0.3, Seed: 42}
	require.NoError(t, node.Process(context.Background(), rctx))
	assert.Equal(t, 14, rctx.Train.Len())
	assert.Equal(t, 6, rctx.Test.Len())
	assert.Len(t, rctx.Train.Samples[0].Features, 2)
}
