package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/segkit/core"
)

func record(count int, cluster string, avg float64) core.JoinedRecord {
	return core.JoinedRecord{
		UserSegmentRecord: core.UserSegmentRecord{UserID: 1, ClusterID: cluster, AvgRatingZ: avg},
		RawRatingCount:    count,
	}
}

func TestProgram_Evaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		rec  core.JoinedRecord
		want bool
	}{
		{name: "threshold boundary", expr: "user.raw_rating_count > 50", rec: record(50, "a", 0), want: false},
		{name: "threshold above", expr: "user.raw_rating_count > 50", rec: record(51, "a", 0), want: true},
		{name: "string field", expr: `user.cluster_id == "cluster_2"`, rec: record(1, "cluster_2", 0), want: true},
		{name: "mixed numeric", expr: "user.avg_rating_z > 0", rec: record(1, "a", 0.5), want: true},
		{name: "logical", expr: "user.raw_rating_count > 10 && user.avg_rating_z < 0.0", rec: record(20, "a", 0.5), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prg, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := prg.Evaluate(UserVars(tt.rec))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.expr, prg.Source())
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile("")
	assert.Error(t, err)

	_, err = Compile("user.raw_rating_count >")
	require.Error(t, err)
	assert.Equal(t, core.StageConfig, core.StageOf(err))

	_, err = Compile("unknown_var > 1")
	assert.Error(t, err)
}

func TestProgram_NonBoolean(t *testing.T) {
	prg, err := Compile("user.raw_rating_count + 1")
	require.NoError(t, err)
	_, err = prg.Evaluate(UserVars(record(1, "a", 0)))
	assert.Error(t, err)
}
