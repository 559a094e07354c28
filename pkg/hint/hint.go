package hint

const (
	TextBreathe  = "Take a step back and breathe"
	TextTreat    = "Press T to give treat"
	TextSitReady = "Approach the dog and press 1 to sit."
)

type Config struct {
	HighFear float64 `yaml:"high_fear" json:"high_fear"`
}

func DefaultConfig() Config {
	return Config{HighFear: 60}
}

// Input is what the hint picker needs to know about the level.
type Input struct {
	Fear        float64
	Distance    float64
	TreatRange  float64
	SitUnlocked bool
	Finished    bool
}

// Select returns the single most relevant hint, or "" when none applies.
// High fear outranks the treat prompt, which outranks the sit prompt.
func Select(cfg Config, in Input) string {
	if in.Finished {
		return ""
	}
	if in.Fear > cfg.HighFear {
		return TextBreathe
	}
	if in.Distance <= in.TreatRange && !in.SitUnlocked {
		return TextTreat
	}
	if in.SitUnlocked {
		return TextSitReady
	}
	return ""
}
