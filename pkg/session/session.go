package session

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/vignette-engine/pkg/dog"
	"github.com/jwebster45206/vignette-engine/pkg/fear"
	"github.com/jwebster45206/vignette-engine/pkg/hint"
	"github.com/jwebster45206/vignette-engine/pkg/level"
	"github.com/jwebster45206/vignette-engine/pkg/player"
	"github.com/jwebster45206/vignette-engine/pkg/stimulus"
	"github.com/jwebster45206/vignette-engine/pkg/trust"
)

// Input is the player's intent for one step.
type Input struct {
	Axis     float64   `json:"axis"`
	Run      bool      `json:"run"`
	Commands []Command `json:"commands,omitempty"`
}

type StimulusState struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Fired bool    `json:"fired"`
}

// Snapshot is the level snapshot plus the world around it.
type Snapshot struct {
	level.Snapshot
	SessionID uuid.UUID       `json:"session_id"`
	PlayerX   float64         `json:"player_x"`
	DogX      float64         `json:"dog_x"`
	SitVisual bool            `json:"sit_visual"`
	Calming   bool            `json:"calming"`
	Hint      string          `json:"hint,omitempty"`
	Stimuli   []StimulusState `json:"stimuli,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type StepResult struct {
	Snapshot Snapshot `json:"snapshot"`
	Events   []Event  `json:"events"`
}

// Session drives one playthrough of a level on a horizontal track. It owns
// the core models and feeds them positions and elapsed time. A Session is not
// safe for concurrent use; callers serialize access.
type Session struct {
	id  uuid.UUID
	cfg Config

	fear    *fear.Model
	trust   *trust.Model
	dog     *dog.Behavior
	rules   *level.Rules
	stimuli []*stimulus.Trigger

	playerX            float64
	dogX               float64
	sitVisualRemaining float64
	sitVisualFresh     bool // set by a sit this step; skips this step's countdown

	createdAt time.Time
	logger    *slog.Logger
}

// New validates cfg and builds a fresh session with the player and dog at
// their start positions.
func New(id uuid.UUID, cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}

	s := &Session{
		id:        id,
		cfg:       cfg,
		fear:      fear.New(cfg.Fear),
		trust:     trust.New(cfg.Trust),
		dog:       dog.New(),
		playerX:   cfg.World.PlayerStartX,
		dogX:      cfg.World.DogStartX,
		createdAt: time.Now(),
	}
	s.rules = level.New(cfg.Level, s.fear, s.trust, s.dog)
	for i := range cfg.World.Stimuli {
		s.stimuli = append(s.stimuli, cfg.World.Stimuli[i].Clone())
	}
	return s, nil
}

// WithLogger sets the logger used by the session and its rules.
// Returns the Session for method chaining
func (s *Session) WithLogger(logger *slog.Logger) *Session {
	s.logger = logger.With("session_id", s.id.String())
	s.rules.WithLogger(s.logger)
	return s
}

func (s *Session) ID() uuid.UUID          { return s.id }
func (s *Session) Config() Config         { return s.cfg }
func (s *Session) Outcome() level.Outcome { return s.rules.Outcome() }

func (s *Session) distance() float64 {
	return math.Abs(s.dogX - s.playerX)
}

// Step advances the session by dt seconds. Commands run first, in order,
// then player motion, dog follow, stimuli, the sit visual timer and finally
// the level clock. Steps with dt <= 0 and steps after the level has ended
// change nothing.
func (s *Session) Step(dt float64, in Input) StepResult {
	if dt <= 0 || math.IsNaN(dt) || s.rules.Outcome().Terminal() {
		return StepResult{Snapshot: s.Snapshot(), Events: []Event{}}
	}

	s.sitVisualFresh = false
	events := []Event{}
	for _, cmd := range in.Commands {
		events = s.applyCommand(cmd, events)
	}

	motion := player.Step(s.cfg.Player, s.playerX, in.Axis, in.Run, s.dogX, dt)
	s.playerX = motion.X
	if motion.FearDelta > 0 {
		s.rules.ApplyFearDelta(motion.FearDelta)
	}

	if s.dog.IsFollowing() {
		s.dogX = dog.FollowStep(s.dogX, s.playerX, s.cfg.Dog.FollowSpeed, dt)
	}

	for _, st := range s.stimuli {
		if !st.Check(s.dogX) {
			continue
		}
		s.rules.ApplyFearDelta(st.FearAmount)
		events = append(events, Event{
			Type: EventStimulusContact,
			Data: map[string]interface{}{
				"name":        st.Name,
				"x":           st.X,
				"fear_amount": st.FearAmount,
				"fear":        s.fear.Current(),
			},
		})
	}

	if s.sitVisualRemaining > 0 && !s.sitVisualFresh {
		s.sitVisualRemaining = math.Max(0, s.sitVisualRemaining-dt)
	}

	switch s.rules.Tick(dt, motion.Moved, s.distance()) {
	case level.OutcomeWon:
		events = append(events, s.endEvent(EventLevelWon))
	case level.OutcomeLost:
		events = append(events, s.endEvent(EventLevelLost))
	}

	return StepResult{Snapshot: s.Snapshot(), Events: events}
}

func (s *Session) applyCommand(cmd Command, events []Event) []Event {
	switch cmd {
	case CmdTreat:
		wasUnlocked := s.rules.SitUnlocked()
		dist := s.distance()
		if !s.rules.TryGiveTreat(dist) {
			return append(events, Event{
				Type: EventTreatMissed,
				Data: map[string]interface{}{"distance": dist},
			})
		}
		events = append(events, Event{
			Type: EventTreatGiven,
			Data: map[string]interface{}{
				"distance":           dist,
				"trust":              s.trust.Current(),
				"consecutive_treats": s.rules.ConsecutiveTreats(),
			},
		})
		if !wasUnlocked && s.rules.SitUnlocked() {
			events = append(events, Event{
				Type: EventSitUnlocked,
				Data: map[string]interface{}{"consecutive_treats": s.rules.ConsecutiveTreats()},
			})
		}
		return events

	case CmdSit:
		events = s.applySit(events)

	case CmdStay, CmdFollow:
		if s.rules.IssueCommand(dog.Command(cmd)) {
			events = append(events, Event{
				Type: EventDogCommand,
				Data: map[string]interface{}{"mode": s.dog.Mode()},
			})
		}

	default:
		if s.logger != nil {
			s.logger.Debug("Ignoring unknown command", "command", cmd)
		}
		return events
	}

	s.rules.ApplyFearDelta(s.cfg.Dog.CommandCalmFear)
	return events
}

func (s *Session) applySit(events []Event) []Event {
	dist := s.distance()
	out := s.rules.TrySitCommand(dist, s.dogX-s.playerX)

	switch out.Result {
	case level.SitLocked:
		events = append(events, Event{
			Type: EventSitLocked,
			Data: map[string]interface{}{"consecutive_treats": s.rules.ConsecutiveTreats()},
		})

	case level.SitSucceeded:
		if out.Directive != nil {
			s.sitVisualRemaining = out.Directive.Duration
			s.sitVisualFresh = true
		}
		events = append(events, Event{
			Type: EventSitSucceeded,
			Data: map[string]interface{}{
				"distance": dist,
				"trust":    s.trust.Current(),
			},
		})

	case level.SitFailed:
		events = append(events, Event{
			Type: EventSitFailed,
			Data: map[string]interface{}{
				"distance": dist,
				"trust":    s.trust.Current(),
			},
		})
		if d := out.Directive; d != nil && d.Kind == level.DirectiveBackOff {
			s.dogX += d.Direction * d.Distance
			events = append(events, Event{
				Type: EventDogBackOff,
				Data: map[string]interface{}{
					"direction": d.Direction,
					"distance":  d.Distance,
					"dog_x":     s.dogX,
				},
			})
		}
	}
	return events
}

func (s *Session) endEvent(t EventType) Event {
	snap := s.rules.Snapshot()
	data := map[string]interface{}{
		"elapsed": snap.Elapsed,
		"fear":    snap.Fear,
		"trust":   snap.Trust,
		"message": snap.Message,
	}
	if snap.LossReason != level.ReasonNone {
		data["reason"] = snap.LossReason
	}
	return Event{Type: t, Data: data}
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	ls := s.rules.Snapshot()
	ls.Distance = s.distance()

	stimuli := make([]StimulusState, 0, len(s.stimuli))
	for _, st := range s.stimuli {
		stimuli = append(stimuli, StimulusState{Name: st.Name, X: st.X, Fired: st.Fired()})
	}

	return Snapshot{
		Snapshot:  ls,
		SessionID: s.id,
		PlayerX:   s.playerX,
		DogX:      s.dogX,
		SitVisual: s.sitVisualRemaining > 0,
		Calming:   s.fear.Calming(),
		Hint: hint.Select(s.cfg.Hint, hint.Input{
			Fear:        ls.Fear,
			Distance:    ls.Distance,
			TreatRange:  s.cfg.Level.TreatRange,
			SitUnlocked: ls.SitUnlocked,
			Finished:    ls.Outcome.Terminal(),
		}),
		Stimuli:   stimuli,
		CreatedAt: s.createdAt,
	}
}
