package player

import (
	"fmt"
	"math"
)

// movedEpsilon is the smallest displacement that counts as movement.
const movedEpsilon = 0.001

// Config tunes horizontal player movement and the fear it causes.
type Config struct {
	MoveSpeed               float64 `yaml:"move_speed" json:"move_speed"`
	RunMultiplier           float64 `yaml:"run_multiplier" json:"run_multiplier"`
	SharpMoveSpeedThreshold float64 `yaml:"sharp_move_speed_threshold" json:"sharp_move_speed_threshold"`
	FearIncreasePerSec      float64 `yaml:"fear_increase_per_sec" json:"fear_increase_per_sec"`
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed:               4,
		RunMultiplier:           2,
		SharpMoveSpeedThreshold: 6,
		FearIncreasePerSec:      6,
	}
}

func (c Config) Validate() error {
	if c.MoveSpeed < 0 {
		return fmt.Errorf("player move_speed must not be negative, got %v", c.MoveSpeed)
	}
	if c.RunMultiplier < 1 {
		return fmt.Errorf("player run_multiplier must be at least 1, got %v", c.RunMultiplier)
	}
	if c.FearIncreasePerSec < 0 {
		return fmt.Errorf("player fear_increase_per_sec must not be negative, got %v", c.FearIncreasePerSec)
	}
	return nil
}

// Motion is the result of one movement step.
type Motion struct {
	X         float64
	Moved     bool
	Sharp     bool
	TowardDog bool
	// FearDelta is zero unless the step was both sharp and toward the dog.
	FearDelta float64
}

// Step moves the player along X. axis is clamped to [-1, 1]; run applies
// the run multiplier.
func Step(cfg Config, x float64, axis float64, run bool, dogX float64, dt float64) Motion {
	if dt <= 0 {
		return Motion{X: x}
	}
	if axis > 1 {
		axis = 1
	} else if axis < -1 {
		axis = -1
	}

	speed := cfg.MoveSpeed
	if run {
		speed *= cfg.RunMultiplier
	}
	next := x + axis*speed*dt
	moved := next - x
	dist := math.Abs(moved)

	m := Motion{X: next, Moved: dist > movedEpsilon}
	if dist <= 0.0001 {
		return m
	}

	m.Sharp = dist/dt > cfg.SharpMoveSpeedThreshold
	// In one dimension the direction test reduces to matching signs.
	m.TowardDog = moved*(dogX-next) > 0
	if m.Sharp && m.TowardDog {
		m.FearDelta = cfg.FearIncreasePerSec * dt
	}
	return m
}
