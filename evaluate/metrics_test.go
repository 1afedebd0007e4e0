package evaluate

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/segkit/core"
)

func TestEvaluate(t *testing.T) {
	actual := []string{"Low", "Low", "Low", "High", "High", "Low", "High", "Low"}
	predicted := []string{"Low", "High", "Low", "High", "Low", "Low", "High", "Low"}

	m, err := Evaluate(actual, predicted)
	require.NoError(t, err)
	assert.Equal(t, 4, m.TrueNegative)
	assert.Equal(t, 1, m.FalsePositive)
	assert.Equal(t, 1, m.FalseNegative)
	assert.Equal(t, 2, m.TruePositive)
	assert.Equal(t, len(actual), m.Total())
	assert.InDelta(t, 0.75, m.Accuracy, 1e-12)
	assert.Equal(t, [2][2]int{{4, 1}, {1, 2}}, m.Matrix())
}

func TestEvaluate_SingleClassPredicted(t *testing.T) {
	m, err := Evaluate([]string{"Low", "High", "Low"}, []string{"Low", "Low", "Low"})
	require.NoError(t, err)
	assert.Equal(t, 2, m.TrueNegative)
	assert.Equal(t, 1, m.FalseNegative)
	assert.Zero(t, m.TruePositive)
	assert.Zero(t, m.FalsePositive)
	assert.InDelta(t, 2.0/3.0, m.Accuracy, 1e-12)
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate(nil, nil)
	require.Error(t, err)
	assert.Equal(t, core.StageEvaluate, core.StageOf(err))

	_, err = Evaluate([]string{"Low"}, []string{"Low", "High"})
	assert.Error(t, err)

	_, err = Evaluate([]string{"Low"}, []string{"Medium"})
	assert.True(t, core.IsInvalidValue(err))
}

type constClassifier string

func (c constClassifier) Name() string                      { return "const" }
func (c constClassifier) Predict([]float64) (string, error) { return string(c), nil }

func TestEvaluateNode(t *testing.T) {
	rctx := core.NewRunContext("test", zerolog.Nop())
	rctx.Model = constClassifier("High")
	rctx.Test = core.Dataset{Samples: []core.Sample{
		{UserID: 1, Features: []float64{0, 0}, Label: "High"},
		{UserID: 2, Features: []float64{0, 0}, Label: "Low"},
		{UserID: 3, Features: []float64{0, 0}, Label: "High"},
		{UserID: 4, Features: []float64{0, 0}, Label: "High"},
	}}

	require.NoError(t, (&EvaluateNode{}).Process(context.Background(), rctx))
	assert.Equal(t, []string{"High", "High", "High", "High"}, rctx.Predictions)
	require.NotNil(t, rctx.Metrics)
	assert.Equal(t, 3, rctx.Metrics.TruePositive)
	assert.Equal(t, 1, rctx.Metrics.FalsePositive)
	assert.InDelta(t, 0.75, rctx.Metrics.Accuracy, 1e-12)
}

func TestEvaluateNode_MissingModel(t *testing.T) {
	rctx := core.NewRunContext("test", zerolog.Nop())
	err := (&EvaluateNode{}).Process(context.Background(), rctx)
	assert.Equal(t, core.StageEvaluate, core.StageOf(err))
}
