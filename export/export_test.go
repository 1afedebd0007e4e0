package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/store"
)

func joinedFixture() []core.JoinedRecord {
	return []core.JoinedRecord{
		{
			UserSegmentRecord: core.UserSegmentRecord{UserID: 1, ClusterID: "A", TotalMoviesRatedZ: 1.25, AvgRatingZ: -0.5, StdDevRatingZ: 0},
			RawRatingCount:    60,
			ActivityLevel:     core.ActivityHigh,
		},
		{
			UserSegmentRecord: core.UserSegmentRecord{UserID: 2, ClusterID: "B", TotalMoviesRatedZ: -0.1, AvgRatingZ: 2, StdDevRatingZ: 0.00001},
			RawRatingCount:    10,
			ActivityLevel:     core.ActivityLow,
		},
	}
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{12, "12.0"},
		{-3, "-3.0"},
		{0.75, "0.75"},
		{0.1, "0.1"},
		{1.0 / 3.0, "0.3333333333333333"},
		{-0.123456789, "-0.123456789"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1e16, "1e+16"},
		{123456789012345.0, "123456789012345.0"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatFloat(c.in), "%v", c.in)
	}
}

func TestWriteSegments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSegments(&buf, joinedFixture()))
	assert.Equal(t,
		"userId,Cluster_ID,Total_Movies_Rated_ZScore,Average_Rating_ZScore,StdDev_Rating_ZScore,Activity_Level\n"+
			"1,A,1.25,-0.5,0.0,High\n"+
			"2,B,-0.1,2.0,1e-05,Low\n",
		buf.String())
}

func TestWriteSegments_EmptyLabel(t *testing.T) {
	rows := joinedFixture()
	rows[1].ActivityLevel = ""
	err := WriteSegments(io.Discard, rows)
	require.Error(t, err)
	assert.Equal(t, core.StageExport, core.StageOf(err))
}

func TestWriteMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMetrics(&buf, core.Metrics{
		Accuracy:      0.75,
		TrueNegative:  4,
		FalsePositive: 1,
		FalseNegative: 1,
		TruePositive:  2,
	}))
	assert.Equal(t,
		"Metric,Value\n"+
			"Accuracy,0.75\n"+
			"True Negative (Low),4.0\n"+
			"False Positive,1.0\n"+
			"False Negative,1.0\n"+
			"True Positive (High),2.0\n",
		buf.String())
}

func TestWriteBundle_AllOrNothing(t *testing.T) {
	dir := t.TempDir()
	ok := File{Name: "a.csv", Write: func(w io.Writer) error {
		_, err := io.WriteString(w, "x\n")
		return err
	}}
	broken := File{Name: "b.csv", Write: func(io.Writer) error { return errors.New("disk full") }}

	_, err := WriteBundle(dir, ok, broken)
	require.Error(t, err)
	assert.Equal(t, core.StageExport, core.StageOf(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	paths, err := WriteBundle(filepath.Join(dir, "out"), ok)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}

func TestExportNode(t *testing.T) {
	dir := t.TempDir()
	rctx := core.NewRunContext("run-1", zerolog.Nop())
	rctx.Joined = joinedFixture()
	rctx.Metrics = &core.Metrics{Accuracy: 1, TrueNegative: 1, TruePositive: 1}

	require.NoError(t, (&ExportNode{OutputDir: dir}).Process(context.Background(), rctx))
	assert.Equal(t, []string{
		filepath.Join(dir, core.SegmentsExportFile),
		filepath.Join(dir, core.MetricsExportFile),
	}, rctx.Outputs)

	data, err := os.ReadFile(filepath.Join(dir, core.MetricsExportFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Accuracy,1.0\n")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExportNode_NoMetrics(t *testing.T) {
	dir := t.TempDir()
	rctx := core.NewRunContext("run-1", zerolog.Nop())
	rctx.Joined = joinedFixture()

	err := (&ExportNode{OutputDir: dir}).Process(context.Background(), rctx)
	require.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestStoreNode(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	rctx := core.NewRunContext("run-1", zerolog.Nop())
	rctx.Joined = joinedFixture()
	require.NoError(t, (&StoreNode{Store: ms}).Process(ctx, rctx))

	fields, err := ms.HGetAll(ctx, DefaultKeyPrefix+"1")
	require.NoError(t, err)
	assert.Equal(t, "A", string(fields["cluster_id"]))
	assert.Equal(t, "High", string(fields["activity_level"]))
	assert.Equal(t, "60", string(fields["raw_rating_count"]))

	run, err := ms.Get(ctx, DefaultKeyPrefix+"latest_run")
	require.NoError(t, err)
	assert.Equal(t, "run-1", string(run))
	users, err := ms.Get(ctx, DefaultKeyPrefix+"latest_run:users")
	require.NoError(t, err)
	assert.Equal(t, "2", string(users))
	_, err = ms.Get(ctx, DefaultKeyPrefix+"latest_run:accuracy")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestStoreNode_Redis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rs, err := store.NewRedisStore(ctx, store.RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)

	rctx := core.NewRunContext("run-2", zerolog.Nop())
	rctx.Joined = joinedFixture()
	rctx.Metrics = &core.Metrics{Accuracy: 0.75, TrueNegative: 1, FalsePositive: 1, TruePositive: 2}

	node := &StoreNode{Store: rs}
	require.NoError(t, node.Process(ctx, rctx))
	require.NoError(t, node.Close())

	assert.Equal(t, "A", mr.HGet("segkit:user:1", "cluster_id"))
	assert.Equal(t, "High", mr.HGet("segkit:user:1", "activity_level"))
	assert.Equal(t, "60", mr.HGet("segkit:user:1", "raw_rating_count"))
	assert.Equal(t, "Low", mr.HGet("segkit:user:2", "activity_level"))

	for key, want := range map[string]string{
		"segkit:user:latest_run":          "run-2",
		"segkit:user:latest_run:users":    "2",
		"segkit:user:latest_run:accuracy": "0.75",
	} {
		got, err := mr.Get(key)
		require.NoError(t, err, key)
		assert.Equal(t, want, got, key)
	}
}

func TestStoreNode_NoStore(t *testing.T) {
	rctx := core.NewRunContext("run-1", zerolog.Nop())
	assert.NoError(t, (&StoreNode{}).Process(context.Background(), rctx))
}
