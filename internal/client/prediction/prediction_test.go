package prediction_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hexateam/rtype-core/internal/client/prediction"
	"github.com/hexateam/rtype-core/internal/config"
	"github.com/hexateam/rtype-core/internal/protocol"
)

func testConfig() config.PredictionConfig {
	return config.PredictionConfig{
		InputHistorySize: 12,
		MicroJitterPx:    2.0,
		AdaptiveBasePx:   5.0,
		AdaptivePerMsPx:  0.25,
		AdaptiveMaxPx:    30.0,
	}
}

func TestPredictAppliesAxisAlignedDisplacement(t *testing.T) {
	e := prediction.New(testConfig(), 100.0, prediction.Position{})

	pos := e.Predict(protocol.InputSnapshot{Seq: 1, DX: 1, DY: 0}, 100*time.Millisecond)

	assert.InDelta(t, 10.0, pos.X, 1e-9)
	assert.InDelta(t, 0.0, pos.Y, 1e-9)
}

func TestPredictScalesDiagonalByInverseSqrt2(t *testing.T) {
	e := prediction.New(testConfig(), 100.0, prediction.Position{})

	pos := e.Predict(protocol.InputSnapshot{Seq: 1, DX: 1, DY: 1}, 100*time.Millisecond)

	expected := 10.0 * (1 / math.Sqrt2)
	assert.InDelta(t, expected, pos.X, 1e-9)
	assert.InDelta(t, expected, pos.Y, 1e-9)
	// Diagonal displacement magnitude must equal axis-aligned magnitude.
	assert.InDelta(t, 10.0, math.Hypot(pos.X, pos.Y), 1e-9)
}

func TestReconcileDiscardsMicroJitter(t *testing.T) {
	e := prediction.New(testConfig(), 100.0, prediction.Position{X: 10, Y: 10})

	e.Reconcile(prediction.Position{X: 11, Y: 10}, nil, 50*time.Millisecond, 100*time.Millisecond)

	assert.False(t, e.Correcting())
	assert.Equal(t, prediction.Position{X: 10, Y: 10}, e.Position)
}

func TestReconcileWithinAdaptiveThresholdDoesNotCorrect(t *testing.T) {
	e := prediction.New(testConfig(), 100.0, prediction.Position{X: 0, Y: 0})

	// threshold at 0 RTT is 5px; a 4px diff must not trigger a correction.
	e.Reconcile(prediction.Position{X: 4, Y: 0}, nil, 0, 100*time.Millisecond)

	assert.False(t, e.Correcting())
}

func TestReconcileBeyondThresholdStartsCorrection(t *testing.T) {
	e := prediction.New(testConfig(), 100.0, prediction.Position{X: 0, Y: 0})

	e.Reconcile(prediction.Position{X: 50, Y: 0}, nil, 0, 100*time.Millisecond)

	assert.True(t, e.Correcting())
}

func TestReconcileResimulatesRemainingInputsFromServerPosition(t *testing.T) {
	e := prediction.New(testConfig(), 100.0, prediction.Position{X: 999, Y: 999})

	remaining := []protocol.InputSnapshot{
		{Seq: 2, DX: 1, DY: 0},
		{Seq: 3, DX: 1, DY: 0},
	}
	// Server position 0,0 + two 100ms ticks of DX=1 at 100px/s = 20px.
	// That lands inside the default 30px max threshold only if diff from
	// e.Position (999,999) is huge, which forces a correction whose
	// target is the resimulated point, not the raw server position.
	e.Reconcile(prediction.Position{X: 0, Y: 0}, remaining, 0, 100*time.Millisecond)

	require := assert.New(t)
	require.True(e.Correcting())
	e.Advance(1 * time.Hour) // finish the correction
	require.InDelta(20.0, e.Position.X, 1e-9)
	require.InDelta(0.0, e.Position.Y, 1e-9)
}

func TestAdvanceInterpolatesThenSnapsToTarget(t *testing.T) {
	e := prediction.New(testConfig(), 100.0, prediction.Position{X: 0, Y: 0})
	e.Reconcile(prediction.Position{X: 100, Y: 0}, nil, 0, 100*time.Millisecond)
	assert.True(t, e.Correcting())

	e.Advance(60 * time.Millisecond) // half of the 120ms correction duration
	assert.True(t, e.Correcting())
	assert.InDelta(t, 50.0, e.Position.X, 1.0)

	e.Advance(60 * time.Millisecond)
	assert.False(t, e.Correcting())
	assert.Equal(t, 100.0, e.Position.X)
}

func TestSetSpeedAffectsSubsequentPredict(t *testing.T) {
	e := prediction.New(testConfig(), 100.0, prediction.Position{})
	e.SetSpeed(200.0)

	pos := e.Predict(protocol.InputSnapshot{Seq: 1, DX: 1, DY: 0}, 100*time.Millisecond)

	assert.InDelta(t, 20.0, pos.X, 1e-9)
}
