package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/vignette-engine/pkg/dog"
	"github.com/jwebster45206/vignette-engine/pkg/hint"
	"github.com/jwebster45206/vignette-engine/pkg/level"
)

func newTestSession(t *testing.T, mutate func(*Config)) *Session {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(uuid.New(), cfg)
	require.NoError(t, err)
	return s
}

func stepN(s *Session, n int, dt float64, in Input) StepResult {
	var res StepResult
	for i := 0; i < n; i++ {
		res = s.Step(dt, in)
	}
	return res
}

func TestNew(t *testing.T) {
	s := newTestSession(t, nil)
	snap := s.Snapshot()

	assert.Equal(t, s.ID(), snap.SessionID)
	assert.Equal(t, 0.0, snap.PlayerX)
	assert.Equal(t, 6.0, snap.DogX)
	assert.Equal(t, 6.0, snap.Distance)
	assert.Equal(t, 40.0, snap.Fear)
	assert.Equal(t, 0.0, snap.Trust)
	assert.Equal(t, level.OutcomeRunning, snap.Outcome)
	assert.Equal(t, "", snap.Hint)
	require.Len(t, snap.Stimuli, 1)
	assert.False(t, snap.Stimuli[0].Fired)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level.TimeLimit = 0
	_, err := New(uuid.New(), cfg)
	assert.Error(t, err)
}

func TestStep_TreatOutOfRange(t *testing.T) {
	s := newTestSession(t, nil)
	res := s.Step(0.1, Input{Commands: []Command{CmdTreat}})

	assert.Equal(t, []EventType{EventTreatMissed}, Types(res.Events))
	assert.Equal(t, 0.0, res.Snapshot.Trust)
	assert.Equal(t, 40.0, res.Snapshot.Fear, "treats do not calm")
}

func TestStep_TreatsUnlockSit(t *testing.T) {
	s := newTestSession(t, nil)

	res := s.Step(0.5, Input{Axis: 1})
	assert.InDelta(t, 2.0, res.Snapshot.PlayerX, 1e-9)
	assert.Equal(t, hint.TextTreat, res.Snapshot.Hint)

	res = s.Step(0.1, Input{Commands: []Command{CmdTreat, CmdTreat}})
	assert.Equal(t, []EventType{EventTreatGiven, EventTreatGiven, EventSitUnlocked}, Types(res.Events))
	assert.Equal(t, 30.0, res.Snapshot.Trust)
	assert.True(t, res.Snapshot.SitUnlocked)
	assert.Equal(t, hint.TextSitReady, res.Snapshot.Hint)
}

func TestStep_SitTooFarBacksOff(t *testing.T) {
	s := newTestSession(t, nil)
	s.Step(0.5, Input{Axis: 1})
	s.Step(0.1, Input{Commands: []Command{CmdTreat, CmdTreat}})

	res := s.Step(0.1, Input{Commands: []Command{CmdSit}})
	assert.Equal(t, []EventType{EventSitFailed, EventDogBackOff}, Types(res.Events))
	assert.Equal(t, 25.0, res.Snapshot.Trust)
	assert.Equal(t, 0, res.Snapshot.ConsecutiveTreats)
	assert.True(t, res.Snapshot.SitUnlocked)
	assert.InDelta(t, 7.0, res.Snapshot.DogX, 1e-9)
	assert.InDelta(t, 39.0, res.Snapshot.Fear, 1e-9, "command calm applies after a failed sit")
}

func TestStep_SitSucceeds(t *testing.T) {
	s := newTestSession(t, nil)
	s.Step(1, Input{Axis: 1})
	require.InDelta(t, 2.0, s.Snapshot().Distance, 1e-9)

	res := s.Step(0.1, Input{Commands: []Command{CmdTreat, CmdTreat, CmdSit}})
	assert.Equal(t, []EventType{EventTreatGiven, EventTreatGiven, EventSitUnlocked, EventSitSucceeded}, Types(res.Events))
	assert.Equal(t, dog.ModeSit, res.Snapshot.DogMode)
	assert.True(t, res.Snapshot.SitVisual)

	res = s.Step(1.5, Input{})
	assert.False(t, res.Snapshot.SitVisual)
	assert.Equal(t, dog.ModeSit, res.Snapshot.DogMode)
}

func TestStep_SitVisualLastsFullDuration(t *testing.T) {
	s := newTestSession(t, nil)
	s.Step(1, Input{Axis: 1})
	s.Step(0.1, Input{Commands: []Command{CmdTreat, CmdTreat}})

	res := s.Step(0.5, Input{Commands: []Command{CmdSit}})
	require.Equal(t, dog.ModeSit, res.Snapshot.DogMode)
	assert.True(t, res.Snapshot.SitVisual)

	res = s.Step(1.4, Input{})
	assert.True(t, res.Snapshot.SitVisual, "countdown starts on the step after the sit")

	res = s.Step(0.2, Input{})
	assert.False(t, res.Snapshot.SitVisual)
}

func TestStep_IdleCalmReturnsFearToFloor(t *testing.T) {
	s := newTestSession(t, nil)
	res := s.Step(0.1, Input{Commands: []Command{CmdStay}})
	require.InDelta(t, 39.0, res.Snapshot.Fear, 1e-9)
	assert.False(t, res.Snapshot.Calming)

	res = stepN(s, 38, 0.1, Input{})
	assert.InDelta(t, 39.0, res.Snapshot.Fear, 1e-9, "still inside the idle window")

	res = s.Step(0.2, Input{})
	assert.Equal(t, 40.0, res.Snapshot.Fear)
	assert.False(t, res.Snapshot.Calming, "settled at the calm floor")
}

func TestStep_CalmingShowsInSnapshot(t *testing.T) {
	s := newTestSession(t, func(c *Config) {
		c.Fear.Initial = 60
	})

	res := s.Step(4, Input{})
	assert.True(t, res.Snapshot.Calming)
	assert.InDelta(t, 44.0, res.Snapshot.Fear, 1e-9)

	res = s.Step(0.5, Input{Axis: 1})
	assert.False(t, res.Snapshot.Calming, "moving stops the calm")
}

func TestStep_SitLocked(t *testing.T) {
	s := newTestSession(t, nil)
	res := s.Step(0.1, Input{Commands: []Command{CmdSit}})

	assert.Equal(t, []EventType{EventSitLocked}, Types(res.Events))
	assert.Equal(t, dog.ModeNone, res.Snapshot.DogMode)
	assert.InDelta(t, 39.0, res.Snapshot.Fear, 1e-9)
}

func TestStep_Win(t *testing.T) {
	s := newTestSession(t, nil)
	s.Step(0.5, Input{Axis: 1})

	res := s.Step(0.1, Input{Commands: []Command{CmdTreat, CmdTreat, CmdTreat, CmdTreat}})
	require.NotEmpty(t, res.Events)
	assert.Equal(t, EventLevelWon, res.Events[len(res.Events)-1].Type)
	assert.Equal(t, level.OutcomeWon, res.Snapshot.Outcome)
	assert.Equal(t, "YOU WIN!", res.Snapshot.Message)
	assert.Equal(t, "", res.Snapshot.Hint)

	after := s.Step(0.1, Input{Axis: 1, Commands: []Command{CmdTreat}})
	assert.Empty(t, after.Events)
	assert.Equal(t, res.Snapshot.PlayerX, after.Snapshot.PlayerX)
	assert.Equal(t, res.Snapshot.Trust, after.Snapshot.Trust)
}

func TestStep_FollowAndStimulus(t *testing.T) {
	s := newTestSession(t, nil)

	res := s.Step(0.1, Input{Commands: []Command{CmdFollow}})
	assert.Equal(t, EventDogCommand, res.Events[0].Type)
	assert.Equal(t, dog.ModeFollow, res.Snapshot.DogMode)

	contacts := 0
	for i := 0; i < 30; i++ {
		res = s.Step(0.1, Input{})
		for _, e := range res.Events {
			if e.Type == EventStimulusContact {
				contacts++
			}
		}
	}

	assert.Equal(t, 1, contacts)
	assert.InDelta(t, 0.0, res.Snapshot.DogX, 1e-9, "dog stops at the player")
	assert.InDelta(t, 54.0, res.Snapshot.Fear, 1e-9)
	assert.True(t, res.Snapshot.Stimuli[0].Fired)
}

func TestStep_StayKeepsDogInPlace(t *testing.T) {
	s := newTestSession(t, nil)
	s.Step(0.1, Input{Commands: []Command{CmdStay}})

	res := stepN(s, 10, 0.1, Input{Axis: -1})
	assert.Equal(t, dog.ModeStay, res.Snapshot.DogMode)
	assert.Equal(t, 6.0, res.Snapshot.DogX)
}

func TestStep_SharpMoveTowardDogRaisesFear(t *testing.T) {
	s := newTestSession(t, func(c *Config) {
		c.World.DogStartX = 1000
		c.World.Stimuli = nil
	})

	res := s.Step(0.5, Input{Axis: 1, Run: true})
	assert.InDelta(t, 43.0, res.Snapshot.Fear, 1e-9)

	res = s.Step(0.5, Input{Axis: -1, Run: true})
	assert.InDelta(t, 43.0, res.Snapshot.Fear, 1e-9, "running away is not scary")
}

func TestStep_FearTooHigh(t *testing.T) {
	s := newTestSession(t, func(c *Config) {
		c.Fear.Initial = 75
	})

	res := stepN(s, 5, 0.5, Input{})
	assert.Equal(t, level.OutcomeRunning, res.Snapshot.Outcome)

	res = s.Step(0.5, Input{})
	assert.Equal(t, level.OutcomeLost, res.Snapshot.Outcome)
	assert.Equal(t, level.ReasonFearTooHigh, res.Snapshot.LossReason)
	assert.Equal(t, []EventType{EventLevelLost}, Types(res.Events))
	assert.Equal(t, level.ReasonFearTooHigh, res.Events[0].Data["reason"])
	assert.Equal(t, "", res.Snapshot.Hint)
}

func TestStep_TimeOver(t *testing.T) {
	s := newTestSession(t, func(c *Config) {
		c.Level.TimeLimit = 2
	})

	res := stepN(s, 4, 0.5, Input{})
	assert.Equal(t, level.OutcomeLost, res.Snapshot.Outcome)
	assert.Equal(t, level.ReasonTimeOver, res.Snapshot.LossReason)
	assert.Equal(t, "TIME OVER - YOU LOSE", res.Snapshot.Message)
	assert.Equal(t, 0.0, res.Snapshot.TimeRemaining)
}

func TestStep_NonPositiveDtIgnored(t *testing.T) {
	s := newTestSession(t, nil)
	s.Step(0.5, Input{Axis: 1})
	before := s.Snapshot()

	for _, dt := range []float64{0, -1} {
		res := s.Step(dt, Input{Axis: 1, Commands: []Command{CmdTreat}})
		assert.Empty(t, res.Events)
		assert.Equal(t, before.Trust, res.Snapshot.Trust)
		assert.Equal(t, before.PlayerX, res.Snapshot.PlayerX)
		assert.Equal(t, before.Elapsed, res.Snapshot.Elapsed)
	}
}

func TestStep_StimuliAreNotShared(t *testing.T) {
	cfg := DefaultConfig()
	a, err := New(uuid.New(), cfg)
	require.NoError(t, err)
	b, err := New(uuid.New(), cfg)
	require.NoError(t, err)

	a.Step(0.1, Input{Commands: []Command{CmdFollow}})
	stepN(a, 30, 0.1, Input{})

	assert.True(t, a.Snapshot().Stimuli[0].Fired)
	assert.False(t, b.Snapshot().Stimuli[0].Fired)
	assert.False(t, cfg.World.Stimuli[0].Fired())
}
