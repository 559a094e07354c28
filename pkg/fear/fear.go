package fear

import (
	"fmt"

	"github.com/jwebster45206/vignette-engine/pkg/bounded"
)

// Config holds the fear bounds and idle-calm tuning.
type Config struct {
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Initial float64 `yaml:"initial" json:"initial"`

	IdleTimeToCalm float64 `yaml:"idle_time_to_calm" json:"idle_time_to_calm"` // seconds of stillness before calming starts
	CalmRatePerSec float64 `yaml:"calm_rate_per_sec" json:"calm_rate_per_sec"`
	CalmMinFear    float64 `yaml:"calm_min_fear" json:"calm_min_fear"` // idle calm never goes below this
}

func DefaultConfig() Config {
	return Config{
		Min:            0,
		Max:            100,
		Initial:        40,
		IdleTimeToCalm: 4,
		CalmRatePerSec: 4,
		CalmMinFear:    40,
	}
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if c.Min > c.Max {
		return fmt.Errorf("fear min %v is greater than max %v", c.Min, c.Max)
	}
	if c.Initial < c.Min || c.Initial > c.Max {
		return fmt.Errorf("fear initial %v is outside [%v, %v]", c.Initial, c.Min, c.Max)
	}
	if c.CalmMinFear < c.Min || c.CalmMinFear > c.Max {
		return fmt.Errorf("fear calm_min_fear %v is outside [%v, %v]", c.CalmMinFear, c.Min, c.Max)
	}
	if c.IdleTimeToCalm < 0 {
		return fmt.Errorf("fear idle_time_to_calm must not be negative, got %v", c.IdleTimeToCalm)
	}
	if c.CalmRatePerSec < 0 {
		return fmt.Errorf("fear calm_rate_per_sec must not be negative, got %v", c.CalmRatePerSec)
	}
	return nil
}

// Model owns the dog's fear value and the idle timer that drives passive calming.
type Model struct {
	cfg         Config
	value       bounded.Value
	idleElapsed float64
}

func New(cfg Config) *Model {
	return &Model{
		cfg:   cfg,
		value: bounded.New(cfg.Initial, cfg.Min, cfg.Max),
	}
}

// AddFear applies amount (which may be negative) and restarts the idle timer.
func (m *Model) AddFear(amount float64) {
	m.value.Add(amount)
	m.idleElapsed = 0
}

// Tick advances the idle timer. Once the player has been still for
// IdleTimeToCalm seconds, fear decays at CalmRatePerSec and is clamped to
// [CalmMinFear, Max], so fear under the calm floor settles back up to it.
func (m *Model) Tick(deltaTime float64, playerMoved bool) {
	if deltaTime <= 0 {
		return
	}
	if playerMoved {
		m.idleElapsed = 0
		return
	}

	m.idleElapsed += deltaTime
	if m.idleElapsed < m.cfg.IdleTimeToCalm {
		return
	}

	next := bounded.Clamp(m.value.Current()-m.cfg.CalmRatePerSec*deltaTime, m.cfg.CalmMinFear, m.cfg.Max)
	m.value.Set(next)
}

func (m *Model) Current() float64 { return m.value.Current() }

// IdleElapsed is the time since the last detected movement or fear change.
func (m *Model) IdleElapsed() float64 { return m.idleElapsed }

// Calming reports whether idle calm is active and still moving fear toward
// the calm floor.
func (m *Model) Calming() bool {
	return m.idleElapsed >= m.cfg.IdleTimeToCalm && m.value.Current() != m.cfg.CalmMinFear
}

func (m *Model) Config() Config { return m.cfg }
