package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jwebster45206/vignette-engine/pkg/session"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <level.yaml> [level.yaml...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &LevelValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

type LevelValidator struct {
	errors []string
}

func (v *LevelValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("level file must have .yaml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ext)
	if !isValidLevelFilename(nameWithoutExt) {
		return fmt.Errorf("level filename '%s' must be lowercase snake_case (e.g., city_park.yaml, not city-park.yaml or CityPark.yaml)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	cfg, err := session.ParseConfig(data, true)
	if err != nil {
		return fmt.Errorf("file %s failed strict YAML decoding: %w", filename, err)
	}

	v.validateLevel(cfg)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

// validateLevel runs the engine's own checks, then layout checks that only
// matter for a playable level.
func (v *LevelValidator) validateLevel(cfg session.Config) {
	if err := cfg.Validate(); err != nil {
		v.addError(err.Error())
	}

	if cfg.Level.SitRange > cfg.Level.TreatRange {
		v.addError(fmt.Sprintf("sit_range %v is larger than treat_range %v", cfg.Level.SitRange, cfg.Level.TreatRange))
	}
	if cfg.Level.TrustToWin > cfg.Trust.Max {
		v.addError(fmt.Sprintf("trust_to_win %v can never be reached with trust max %v", cfg.Level.TrustToWin, cfg.Trust.Max))
	}
	if cfg.Level.FearFailThreshold >= cfg.Fear.Max {
		v.addError(fmt.Sprintf("fear_fail_threshold %v can never be exceeded with fear max %v", cfg.Level.FearFailThreshold, cfg.Fear.Max))
	}

	seen := make(map[string]bool)
	for i, st := range cfg.World.Stimuli {
		if st.Name == "" {
			v.addError(fmt.Sprintf("stimulus %d has no name", i))
			continue
		}
		if !isValidID(st.Name) {
			v.addError(fmt.Sprintf("stimulus name '%s' must be lowercase snake_case", st.Name))
		}
		if seen[st.Name] {
			v.addError(fmt.Sprintf("duplicate stimulus name '%s'", st.Name))
		}
		seen[st.Name] = true
	}
}

func (v *LevelValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func isValidID(id string) bool {
	return snakeCase.MatchString(id)
}

func isValidLevelFilename(name string) bool {
	return snakeCase.MatchString(name)
}
