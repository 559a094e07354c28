package fear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_AddFearClamps(t *testing.T) {
	tests := []struct {
		name     string
		amounts  []float64
		expected float64
	}{
		{name: "initial value", amounts: nil, expected: 40},
		{name: "increase", amounts: []float64{15}, expected: 55},
		{name: "decrease below calm floor is allowed", amounts: []float64{-25}, expected: 15},
		{name: "huge positive", amounts: []float64{1e12}, expected: 100},
		{name: "huge negative", amounts: []float64{-1e12}, expected: 0},
		{name: "mixed", amounts: []float64{80, -500, 33}, expected: 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(DefaultConfig())
			for _, a := range tt.amounts {
				m.AddFear(a)
				assert.GreaterOrEqual(t, m.Current(), 0.0)
				assert.LessOrEqual(t, m.Current(), 100.0)
			}
			assert.InDelta(t, tt.expected, m.Current(), 1e-9)
		})
	}
}

func TestModel_AddFearResetsIdle(t *testing.T) {
	m := New(DefaultConfig())
	m.Tick(3, false)
	assert.InDelta(t, 3.0, m.IdleElapsed(), 1e-9)

	m.AddFear(1)
	assert.Equal(t, 0.0, m.IdleElapsed())
}

func TestModel_TickMovementResetsIdle(t *testing.T) {
	m := New(DefaultConfig())
	m.AddFear(30)
	m.Tick(3.9, false)
	m.Tick(0.1, true)
	assert.Equal(t, 0.0, m.IdleElapsed())
	assert.InDelta(t, 70.0, m.Current(), 1e-9, "no calming happens while moving")
}

func TestModel_IdleCalmStartsAfterThreshold(t *testing.T) {
	m := New(DefaultConfig())
	m.AddFear(30) // 70

	m.Tick(3.5, false)
	assert.InDelta(t, 70.0, m.Current(), 1e-9, "no calming before idle threshold")
	assert.False(t, m.Calming())

	m.Tick(0.5, false) // idle reaches 4s exactly, decay applies to this tick
	assert.InDelta(t, 68.0, m.Current(), 1e-9)
	assert.True(t, m.Calming())

	m.Tick(1, false)
	assert.InDelta(t, 64.0, m.Current(), 1e-9)
}

func TestModel_IdleCalmFloor(t *testing.T) {
	cfg := DefaultConfig()
	m := New(cfg)
	m.AddFear(45) // 85

	// Far longer than idleTimeToCalm + (85-40)/4 seconds.
	for i := 0; i < 2000; i++ {
		m.Tick(0.05, false)
		if m.Current() < cfg.CalmMinFear {
			t.Fatalf("fear %v dropped below calm floor", m.Current())
		}
	}
	assert.Equal(t, cfg.CalmMinFear, m.Current())
	assert.False(t, m.Calming())
}

func TestModel_IdleCalmSettlesLowFearAtFloor(t *testing.T) {
	cfg := DefaultConfig()
	m := New(cfg)
	m.AddFear(-1) // 39, one command calm below the floor

	for i := 0; i < 79; i++ {
		m.Tick(0.05, false)
	}
	assert.InDelta(t, 39.0, m.Current(), 1e-9, "no calming before idle threshold")
	assert.False(t, m.Calming())

	for i := 0; i < 21; i++ {
		m.Tick(0.05, false)
	}
	assert.Equal(t, cfg.CalmMinFear, m.Current())
	assert.False(t, m.Calming(), "nothing left to calm at the floor")
}

func TestModel_CalmingBelowFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CalmRatePerSec = 0
	m := New(cfg)
	m.AddFear(-20) // 20

	m.Tick(cfg.IdleTimeToCalm, false)
	assert.Equal(t, cfg.CalmMinFear, m.Current(), "clamp applies even with no decay")
}

func TestModel_TickIgnoresNonPositiveDelta(t *testing.T) {
	m := New(DefaultConfig())
	m.Tick(0, false)
	m.Tick(-1, false)
	m.Tick(math.Inf(-1), false)
	assert.Equal(t, 0.0, m.IdleElapsed())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "inverted bounds", mutate: func(c *Config) { c.Min = 200 }, wantErr: true},
		{name: "initial out of range", mutate: func(c *Config) { c.Initial = 101 }, wantErr: true},
		{name: "calm floor out of range", mutate: func(c *Config) { c.CalmMinFear = -1 }, wantErr: true},
		{name: "negative idle time", mutate: func(c *Config) { c.IdleTimeToCalm = -1 }, wantErr: true},
		{name: "negative calm rate", mutate: func(c *Config) { c.CalmRatePerSec = -4 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
