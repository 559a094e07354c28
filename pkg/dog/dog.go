package dog

import "math"

// Mode is the dog's current behavior. The zero value means no command has
// been given yet.
type Mode string

const (
	ModeNone   Mode = ""
	ModeSit    Mode = "sit"
	ModeStay   Mode = "stay"
	ModeFollow Mode = "follow"
)

// Command is an order the dog understands. Each command selects the mode of
// the same name.
type Command = Mode

const (
	CommandSit    Command = ModeSit
	CommandStay   Command = ModeStay
	CommandFollow Command = ModeFollow
)

// Valid reports whether c is one of Sit, Stay or Follow.
func (c Mode) Valid() bool {
	switch c {
	case ModeSit, ModeStay, ModeFollow:
		return true
	}
	return false
}

// Behavior is the dog's mode state machine. Any command is accepted from any
// mode; there are no guards at this layer.
type Behavior struct {
	sitting   bool
	staying   bool
	following bool
}

func New() *Behavior {
	return &Behavior{}
}

// ExecuteCommand clears every mode flag and sets the one for cmd. Unknown
// commands leave the dog with no active mode.
func (b *Behavior) ExecuteCommand(cmd Command) {
	b.sitting = false
	b.staying = false
	b.following = false

	switch cmd {
	case CommandSit:
		b.sitting = true
	case CommandStay:
		b.staying = true
	case CommandFollow:
		b.following = true
	}
}

func (b *Behavior) IsSitting() bool   { return b.sitting }
func (b *Behavior) IsStaying() bool   { return b.staying }
func (b *Behavior) IsFollowing() bool { return b.following }

func (b *Behavior) Mode() Mode {
	switch {
	case b.sitting:
		return ModeSit
	case b.staying:
		return ModeStay
	case b.following:
		return ModeFollow
	}
	return ModeNone
}

// FollowStep moves dogX toward targetX by at most speed*dt without
// overshooting.
func FollowStep(dogX, targetX, speed, dt float64) float64 {
	maxStep := speed * dt
	if maxStep <= 0 {
		return dogX
	}
	diff := targetX - dogX
	if math.Abs(diff) <= maxStep {
		return targetX
	}
	if diff > 0 {
		return dogX + maxStep
	}
	return dogX - maxStep
}
