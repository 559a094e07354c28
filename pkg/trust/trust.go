package trust

import (
	"fmt"

	"github.com/jwebster45206/vignette-engine/pkg/bounded"
)

type Config struct {
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Initial float64 `yaml:"initial" json:"initial"`
}

func DefaultConfig() Config {
	return Config{Min: 0, Max: 100, Initial: 0}
}

func (c Config) Validate() error {
	if c.Min > c.Max {
		return fmt.Errorf("trust min %v is greater than max %v", c.Min, c.Max)
	}
	if c.Initial < c.Min || c.Initial > c.Max {
		return fmt.Errorf("trust initial %v is outside [%v, %v]", c.Initial, c.Min, c.Max)
	}
	return nil
}

// Model owns the dog's trust value. Trust only moves on explicit events.
type Model struct {
	value bounded.Value
}

func New(cfg Config) *Model {
	return &Model{value: bounded.New(cfg.Initial, cfg.Min, cfg.Max)}
}

func (m *Model) AddTrust(amount float64) {
	m.value.Add(amount)
}

func (m *Model) Current() float64 { return m.value.Current() }
