package bounded

import "fmt"

// Value is a float held inside [min, max]. Every mutation goes through Add or
// Set, both of which clamp, so an out-of-range Value cannot be observed.
type Value struct {
	current float64
	min     float64
	max     float64
}

// New returns a Value starting at initial, clamped into [lo, hi].
// If lo > hi the bounds are swapped.
func New(initial, lo, hi float64) Value {
	if lo > hi {
		lo, hi = hi, lo
	}
	v := Value{min: lo, max: hi}
	v.Set(initial)
	return v
}

// Add applies delta and clamps. Negative deltas are allowed.
func (v *Value) Add(delta float64) {
	v.Set(v.current + delta)
}

// Set replaces the value, clamped to the bounds.
func (v *Value) Set(value float64) {
	v.current = Clamp(value, v.min, v.max)
}

func (v Value) Current() float64 { return v.current }
func (v Value) Min() float64     { return v.min }
func (v Value) Max() float64     { return v.max }

func (v Value) String() string {
	return fmt.Sprintf("%.2f [%.2f, %.2f]", v.current, v.min, v.max)
}

// Clamp bounds value into [lo, hi]. NaN collapses to lo.
func Clamp(value, lo, hi float64) float64 {
	if value != value {
		return lo
	}
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
