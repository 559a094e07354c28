package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/vignette-engine/pkg/fear"
	"github.com/jwebster45206/vignette-engine/pkg/hint"
	"github.com/jwebster45206/vignette-engine/pkg/level"
	"github.com/jwebster45206/vignette-engine/pkg/player"
	"github.com/jwebster45206/vignette-engine/pkg/stimulus"
	"github.com/jwebster45206/vignette-engine/pkg/trust"
)

// Config is a complete level definition: the rules plus the one-dimensional
// world they play out in.
type Config struct {
	Fear   fear.Config   `yaml:"fear" json:"fear"`
	Trust  trust.Config  `yaml:"trust" json:"trust"`
	Level  level.Config  `yaml:"level" json:"level"`
	Player player.Config `yaml:"player" json:"player"`
	Dog    DogConfig     `yaml:"dog" json:"dog"`
	Hint   hint.Config   `yaml:"hint" json:"hint"`
	World  WorldConfig   `yaml:"world" json:"world"`
}

type DogConfig struct {
	FollowSpeed float64 `yaml:"follow_speed" json:"follow_speed"`
	// CommandCalmFear is applied to fear after every sit, stay or follow
	// command, whether or not the dog obeys.
	CommandCalmFear float64 `yaml:"command_calm_fear" json:"command_calm_fear"`
}

type WorldConfig struct {
	PlayerStartX float64            `yaml:"player_start_x" json:"player_start_x"`
	DogStartX    float64            `yaml:"dog_start_x" json:"dog_start_x"`
	Stimuli      []stimulus.Trigger `yaml:"stimuli" json:"stimuli"`
}

// DefaultConfig returns the level one layout: the dog waits six meters to the
// right of the player with a trash can between them.
func DefaultConfig() Config {
	return Config{
		Fear:   fear.DefaultConfig(),
		Trust:  trust.DefaultConfig(),
		Level:  level.DefaultConfig(),
		Player: player.DefaultConfig(),
		Dog: DogConfig{
			FollowSpeed:     3,
			CommandCalmFear: -1,
		},
		Hint: hint.DefaultConfig(),
		World: WorldConfig{
			PlayerStartX: 0,
			DogStartX:    6,
			Stimuli:      []stimulus.Trigger{*stimulus.NewTrigger("trash_can", 2.5)},
		},
	}
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if err := c.Fear.Validate(); err != nil {
		return err
	}
	if err := c.Trust.Validate(); err != nil {
		return err
	}
	if err := c.Level.Validate(); err != nil {
		return err
	}
	if err := c.Player.Validate(); err != nil {
		return err
	}
	if c.Dog.FollowSpeed < 0 {
		return fmt.Errorf("dog follow_speed must not be negative, got %v", c.Dog.FollowSpeed)
	}
	for i := range c.World.Stimuli {
		if err := c.World.Stimuli[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParseConfig decodes a YAML level definition over the defaults. With strict
// set, unknown keys are an error.
func ParseConfig(data []byte, strict bool) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(strict)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode level config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and validates a YAML level file. An empty path yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read level config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, false)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid level config %s: %w", path, err)
	}
	return cfg, nil
}
