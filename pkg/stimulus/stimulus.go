package stimulus

import (
	"fmt"
	"math"
)

// Trigger is a one-shot fear source placed in the world. It fires the first
// time the dog comes within Radius of X.
type Trigger struct {
	Name       string  `yaml:"name" json:"name"`
	X          float64 `yaml:"x" json:"x"`
	Radius     float64 `yaml:"radius" json:"radius"`
	FearAmount float64 `yaml:"fear_amount" json:"fear_amount"`

	fired bool
}

// NewTrigger returns a trigger with the default radius and fear amount.
func NewTrigger(name string, x float64) *Trigger {
	return &Trigger{Name: name, X: x, Radius: 0.5, FearAmount: 15}
}

func (t *Trigger) Validate() error {
	if t.Radius <= 0 {
		return fmt.Errorf("stimulus %q radius must be positive, got %v", t.Name, t.Radius)
	}
	if t.FearAmount < 0 {
		return fmt.Errorf("stimulus %q fear_amount must not be negative, got %v", t.Name, t.FearAmount)
	}
	return nil
}

// Check reports whether the trigger fires for a dog at dogX. A trigger fires
// at most once.
func (t *Trigger) Check(dogX float64) bool {
	if t.fired {
		return false
	}
	if math.Abs(dogX-t.X) > t.Radius {
		return false
	}
	t.fired = true
	return true
}

func (t *Trigger) Fired() bool { return t.fired }

// Clone returns an unfired copy so level definitions can be shared between sessions.
func (t *Trigger) Clone() *Trigger {
	c := *t
	c.fired = false
	return &c
}
