package level

import (
	"context"
	"log/slog"

	"github.com/jwebster45206/vignette-engine/pkg/dog"
)

// Outcome is the level result. Won and Lost are terminal.
type Outcome string

const (
	OutcomeRunning Outcome = "running"
	OutcomeWon     Outcome = "won"
	OutcomeLost    Outcome = "lost"
)

func (o Outcome) Terminal() bool {
	return o == OutcomeWon || o == OutcomeLost
}

// LossReason explains a Lost outcome.
type LossReason string

const (
	ReasonNone        LossReason = ""
	ReasonFearTooHigh LossReason = "fear_too_high"
	ReasonTimeOver    LossReason = "time_over"
)

// FearModel is the fear state the rules read and drive.
type FearModel interface {
	AddFear(amount float64)
	Tick(deltaTime float64, playerMoved bool)
	Current() float64
}

// TrustModel is the trust state the rules read and adjust.
type TrustModel interface {
	AddTrust(amount float64)
	Current() float64
}

// Dog receives mode changes from the rules.
type Dog interface {
	ExecuteCommand(cmd dog.Command)
	Mode() dog.Mode
}

// Rules is the level-one orchestrator: treat streaks gate the Sit command,
// trust wins the level, and sustained fear or the clock loses it. Rules is not
// safe for concurrent use.
type Rules struct {
	cfg   Config
	fear  FearModel
	trust TrustModel
	dog   Dog

	elapsed           float64
	fearAboveTime     float64
	consecutiveTreats int
	sitUnlocked       bool
	lastDistance      float64

	outcome Outcome
	reason  LossReason

	logger *slog.Logger
}

// New wires the rules to their collaborators. The rules never look anything
// up on their own.
func New(cfg Config, fear FearModel, trust TrustModel, d Dog) *Rules {
	return &Rules{
		cfg:     cfg,
		fear:    fear,
		trust:   trust,
		dog:     d,
		outcome: OutcomeRunning,
	}
}

// WithLogger sets a logger for outcome and unlock transitions.
// Returns the Rules for method chaining
func (r *Rules) WithLogger(logger *slog.Logger) *Rules {
	r.logger = logger
	return r
}

// TryGiveTreat rewards the dog when the player is within TreatRange
// (inclusive). A treat from too far away breaks the streak. Returns whether
// the treat landed.
func (r *Rules) TryGiveTreat(distance float64) bool {
	if r.outcome.Terminal() {
		return false
	}

	if distance > r.cfg.TreatRange {
		r.consecutiveTreats = 0
		return false
	}

	r.trust.AddTrust(r.cfg.TrustPerTreat)
	r.consecutiveTreats++
	if !r.sitUnlocked && r.consecutiveTreats >= r.cfg.TreatsToUnlockSit {
		r.sitUnlocked = true
		r.log(slog.LevelInfo, "Sit command unlocked", "consecutive_treats", r.consecutiveTreats)
	}
	return true
}

// TrySitCommand asks the dog to sit. dogOffsetX is dogX - playerX and only
// sets the back-off direction on failure. Success needs distance strictly
// below SitRange and enough trust.
func (r *Rules) TrySitCommand(distance, dogOffsetX float64) SitOutcome {
	if r.outcome.Terminal() {
		return SitOutcome{Result: SitIgnored}
	}
	if !r.sitUnlocked {
		r.log(slog.LevelDebug, "Sit rejected, not unlocked", "consecutive_treats", r.consecutiveTreats)
		return SitOutcome{Result: SitLocked}
	}

	if distance < r.cfg.SitRange && r.trust.Current() >= r.cfg.MinTrustToSit {
		r.dog.ExecuteCommand(dog.CommandSit)
		return SitOutcome{
			Result: SitSucceeded,
			Directive: &Directive{
				Kind:     DirectiveSitVisual,
				Duration: r.cfg.SitVisualDuration,
			},
		}
	}

	r.trust.AddTrust(-r.cfg.TrustPenaltyEarlySit)
	r.consecutiveTreats = 0
	direction := 1.0
	if dogOffsetX < 0 {
		direction = -1
	}
	return SitOutcome{
		Result: SitFailed,
		Directive: &Directive{
			Kind:      DirectiveBackOff,
			Direction: direction,
			Distance:  r.cfg.DogBackOffDistance,
		},
	}
}

// IssueCommand forwards Stay or Follow to the dog without gating. Sit has
// its own rules and is rejected here.
func (r *Rules) IssueCommand(cmd dog.Command) bool {
	if r.outcome.Terminal() {
		return false
	}
	if cmd != dog.CommandStay && cmd != dog.CommandFollow {
		r.log(slog.LevelDebug, "Command rejected", "command", cmd)
		return false
	}
	r.dog.ExecuteCommand(cmd)
	return true
}

// ApplyFearDelta is the entry point for outside fear sources such as
// stimuli and sharp player movement.
func (r *Rules) ApplyFearDelta(amount float64) {
	if r.outcome.Terminal() {
		return
	}
	r.fear.AddFear(amount)
}

// Tick advances the level clock and evaluates, in order: fear failure, win,
// then time over. The first condition that holds decides the outcome.
func (r *Rules) Tick(deltaTime float64, playerMoved bool, distance float64) Outcome {
	if r.outcome.Terminal() {
		return r.outcome
	}
	if deltaTime < 0 {
		deltaTime = 0
	}

	r.elapsed += deltaTime
	r.lastDistance = distance
	r.fear.Tick(deltaTime, playerMoved)

	if r.fear.Current() > r.cfg.FearFailThreshold {
		r.fearAboveTime += deltaTime
		if r.fearAboveTime >= r.cfg.FearFailDuration {
			r.end(OutcomeLost, ReasonFearTooHigh)
			return r.outcome
		}
	} else {
		r.fearAboveTime = 0
	}

	trust := r.trust.Current()
	if trust >= r.cfg.TrustToWin && r.elapsed <= r.cfg.TimeLimit {
		r.end(OutcomeWon, ReasonNone)
		return r.outcome
	}

	if r.elapsed >= r.cfg.TimeLimit && trust < r.cfg.TrustToWin {
		r.end(OutcomeLost, ReasonTimeOver)
	}
	return r.outcome
}

func (r *Rules) end(outcome Outcome, reason LossReason) {
	r.outcome = outcome
	r.reason = reason
	r.log(slog.LevelInfo, "Level ended",
		"outcome", outcome,
		"reason", reason,
		"elapsed", r.elapsed,
		"fear", r.fear.Current(),
		"trust", r.trust.Current())
}

func (r *Rules) log(level slog.Level, msg string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Log(context.Background(), level, msg, args...)
}

func (r *Rules) Outcome() Outcome            { return r.outcome }
func (r *Rules) LossReason() LossReason      { return r.reason }
func (r *Rules) SitUnlocked() bool           { return r.sitUnlocked }
func (r *Rules) ConsecutiveTreats() int      { return r.consecutiveTreats }
func (r *Rules) Elapsed() float64            { return r.elapsed }
func (r *Rules) FearAboveThreshold() float64 { return r.fearAboveTime }
func (r *Rules) Config() Config              { return r.cfg }

// Message is the result banner for a finished level, empty while running.
func (r *Rules) Message() string {
	switch {
	case r.outcome == OutcomeWon:
		return "YOU WIN!"
	case r.reason == ReasonFearTooHigh:
		return "FEAR TOO HIGH - YOU LOSE"
	case r.reason == ReasonTimeOver:
		return "TIME OVER - YOU LOSE"
	}
	return ""
}

// Snapshot captures every queryable value at once.
func (r *Rules) Snapshot() Snapshot {
	remaining := r.cfg.TimeLimit - r.elapsed
	if remaining < 0 {
		remaining = 0
	}
	return Snapshot{
		Fear:               r.fear.Current(),
		Trust:              r.trust.Current(),
		SitUnlocked:        r.sitUnlocked,
		ConsecutiveTreats:  r.consecutiveTreats,
		Outcome:            r.outcome,
		LossReason:         r.reason,
		DogMode:            r.dog.Mode(),
		Elapsed:            r.elapsed,
		TimeRemaining:      remaining,
		FearAboveThreshold: r.fearAboveTime,
		Distance:           r.lastDistance,
		Message:            r.Message(),
	}
}
