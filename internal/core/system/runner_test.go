package system_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coresys "github.com/hexateam/rtype-core/internal/core/system"
)

type recordingSystem struct {
	phase coresys.Phase
	log   *[]coresys.Phase
}

func (s recordingSystem) Phase() coresys.Phase { return s.phase }
func (s recordingSystem) Update(time.Duration) { *s.log = append(*s.log, s.phase) }

type panickingSystem struct{}

func (panickingSystem) Phase() coresys.Phase  { return coresys.PhaseAI }
func (panickingSystem) Update(time.Duration) { panic("boom") }

func TestRunnerExecutesSystemsInPhaseOrder(t *testing.T) {
	var log []coresys.Phase
	r := coresys.NewRunner()
	r.Register(recordingSystem{phase: coresys.PhaseReaping, log: &log})
	r.Register(recordingSystem{phase: coresys.PhaseInputApplication, log: &log})
	r.Register(recordingSystem{phase: coresys.PhaseCollision, log: &log})

	r.Tick(time.Second / 20)

	require.Len(t, log, 3)
	assert.Equal(t, []coresys.Phase{
		coresys.PhaseInputApplication,
		coresys.PhaseCollision,
		coresys.PhaseReaping,
	}, log)
}

func TestRunnerRecoversPanicsAndKeepsTicking(t *testing.T) {
	var log []coresys.Phase
	r := coresys.NewRunner()
	r.Register(panickingSystem{})
	r.Register(recordingSystem{phase: coresys.PhaseSnapshot, log: &log})

	r.Tick(time.Second / 20)

	require.Len(t, log, 1, "a panicking system must not stop later systems from running")
	errs := r.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "boom")
}

func TestRunnerErrorsResetEachTick(t *testing.T) {
	var log []coresys.Phase
	r := coresys.NewRunner()
	r.Register(panickingSystem{})
	r.Register(recordingSystem{phase: coresys.PhaseSnapshot, log: &log})

	r.Tick(time.Second / 20)
	require.Len(t, r.Errors(), 1)

	// The next Tick replaces the previous tick's recorded errors rather
	// than appending to them.
	r.Tick(time.Second / 20)
	assert.Len(t, r.Errors(), 1)

	// A runner without the panicking system records no errors.
	r2 := coresys.NewRunner()
	r2.Register(recordingSystem{phase: coresys.PhaseSnapshot, log: &log})
	r2.Tick(time.Second / 20)
	assert.Empty(t, r2.Errors())
}
