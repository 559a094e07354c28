package level

import "fmt"

// Config carries the level-one rules. Distances are meters, times seconds.
type Config struct {
	TreatRange           float64 `yaml:"treat_range" json:"treat_range"`
	SitRange             float64 `yaml:"sit_range" json:"sit_range"`
	TrustPerTreat        float64 `yaml:"trust_per_treat" json:"trust_per_treat"`
	TrustPenaltyEarlySit float64 `yaml:"trust_penalty_early_sit" json:"trust_penalty_early_sit"`
	MinTrustToSit        float64 `yaml:"min_trust_to_sit" json:"min_trust_to_sit"`
	TrustToWin           float64 `yaml:"trust_to_win" json:"trust_to_win"`
	TimeLimit            float64 `yaml:"time_limit" json:"time_limit"`
	FearFailThreshold    float64 `yaml:"fear_fail_threshold" json:"fear_fail_threshold"`
	FearFailDuration     float64 `yaml:"fear_fail_duration" json:"fear_fail_duration"`
	TreatsToUnlockSit    int     `yaml:"treats_to_unlock_sit" json:"treats_to_unlock_sit"`

	DogBackOffDistance float64 `yaml:"dog_back_off_distance" json:"dog_back_off_distance"`
	SitVisualDuration  float64 `yaml:"sit_visual_duration" json:"sit_visual_duration"`
}

func DefaultConfig() Config {
	return Config{
		TreatRange:           4,
		SitRange:             3,
		TrustPerTreat:        15,
		TrustPenaltyEarlySit: 5,
		MinTrustToSit:        30,
		TrustToWin:           50,
		TimeLimit:            180,
		FearFailThreshold:    70,
		FearFailDuration:     3,
		TreatsToUnlockSit:    2,
		DogBackOffDistance:   1,
		SitVisualDuration:    1.5,
	}
}

func (c Config) Validate() error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"treat_range", c.TreatRange},
		{"sit_range", c.SitRange},
		{"trust_per_treat", c.TrustPerTreat},
		{"trust_penalty_early_sit", c.TrustPenaltyEarlySit},
		{"fear_fail_duration", c.FearFailDuration},
		{"dog_back_off_distance", c.DogBackOffDistance},
		{"sit_visual_duration", c.SitVisualDuration},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("level %s must not be negative, got %v", f.name, f.value)
		}
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("level time_limit must be positive, got %v", c.TimeLimit)
	}
	if c.TreatsToUnlockSit < 1 {
		return fmt.Errorf("level treats_to_unlock_sit must be at least 1, got %d", c.TreatsToUnlockSit)
	}
	return nil
}
