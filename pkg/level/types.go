package level

import "github.com/jwebster45206/vignette-engine/pkg/dog"

// SitResult classifies a TrySitCommand call.
type SitResult string

const (
	SitIgnored   SitResult = "ignored" // level already over
	SitLocked    SitResult = "locked"
	SitSucceeded SitResult = "succeeded"
	SitFailed    SitResult = "failed"
)

// DirectiveKind names a side effect the presentation or motion layer should carry out.
type DirectiveKind string

const (
	DirectiveSitVisual DirectiveKind = "sit_visual"
	DirectiveBackOff   DirectiveKind = "back_off"
)

// Directive is a one-shot instruction emitted by the rules. The rules keep no
// timers for it; the caller owns any delayed revert.
type Directive struct {
	Kind      DirectiveKind `json:"kind"`
	Duration  float64       `json:"duration,omitempty"`  // sit_visual
	Direction float64       `json:"direction,omitempty"` // back_off, +1 or -1 along X
	Distance  float64       `json:"distance,omitempty"`  // back_off
}

type SitOutcome struct {
	Result    SitResult  `json:"result"`
	Directive *Directive `json:"directive,omitempty"`
}

// Snapshot is a read-only view of the level for presentation layers.
type Snapshot struct {
	Fear               float64    `json:"fear"`
	Trust              float64    `json:"trust"`
	SitUnlocked        bool       `json:"sit_unlocked"`
	ConsecutiveTreats  int        `json:"consecutive_treats"`
	Outcome            Outcome    `json:"outcome"`
	LossReason         LossReason `json:"loss_reason,omitempty"`
	DogMode            dog.Mode   `json:"dog_mode,omitempty"`
	Elapsed            float64    `json:"elapsed"`
	TimeRemaining      float64    `json:"time_remaining"`
	FearAboveThreshold float64    `json:"fear_above_threshold"`
	Distance           float64    `json:"distance"`
	Message            string     `json:"message,omitempty"`
}
