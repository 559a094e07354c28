package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/vignette-engine/pkg/session"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

const tolerance = 1e-6

// Runner executes integration tests against a running vignette-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	LevelOverride     string // If set, overrides the level for all test cases
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite on a fresh session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	level := suite.Level
	if r.LevelOverride != "" {
		level = r.LevelOverride
	}
	snap, err := CreateSession(ctx, r.Client, r.BaseURL, level)
	if err != nil {
		result.Error = fmt.Errorf("failed to create session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.SessionID = snap.SessionID
	defer func() {
		if err := DeleteSession(context.Background(), r.Client, r.BaseURL, snap.SessionID); err != nil {
			r.Logger("    warning: %v", err)
		}
	}()

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, snap.SessionID, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// runStep queues any commands, steps the session Repeat times and checks
// expectations against the final snapshot and every event seen.
func (r *Runner) runStep(ctx context.Context, sessionID uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	for _, cmd := range step.Enqueue {
		if err := PostCommand(ctx, r.Client, r.BaseURL, sessionID, cmd); err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
	}

	commands := make([]session.Command, 0, len(step.Commands))
	for _, raw := range step.Commands {
		cmd := session.ParseCommand(raw)
		if cmd == session.CmdNone {
			result.Error = fmt.Errorf("unknown command %q in test case", raw)
			result.Duration = time.Since(start)
			return result
		}
		commands = append(commands, cmd)
	}

	dt := step.DT
	if dt == 0 {
		dt = DefaultStepDT
	}
	repeat := max(1, step.Repeat)

	var snap session.Snapshot
	for i := 0; i < repeat; i++ {
		in := session.Input{Axis: step.Axis, Run: step.Run}
		if i == 0 {
			in.Commands = commands
		}
		res, err := PostStep(ctx, r.Client, r.BaseURL, sessionID, dt, in)
		if err != nil {
			result.Error = err
			result.Duration = time.Since(start)
			return result
		}
		snap = res.Snapshot
		for _, e := range res.Events {
			result.Events = append(result.Events, string(e.Type))
		}
	}

	if err := checkExpectations(step.Expectations, snap, result.Events); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// checkExpectations validates the test expectations against the final
// snapshot and the events observed during the step.
func checkExpectations(exp Expectations, snap session.Snapshot, events []string) error {
	if exp.Outcome != nil && string(snap.Outcome) != *exp.Outcome {
		return fmt.Errorf("expected outcome %s, got %s", *exp.Outcome, snap.Outcome)
	}
	if exp.LossReason != nil && string(snap.LossReason) != *exp.LossReason {
		return fmt.Errorf("expected loss_reason %q, got %q", *exp.LossReason, snap.LossReason)
	}

	if err := checkFloat("fear", exp.Fear, snap.Fear); err != nil {
		return err
	}
	if exp.FearMin != nil && snap.Fear < *exp.FearMin-tolerance {
		return fmt.Errorf("expected fear >= %v, got %v", *exp.FearMin, snap.Fear)
	}
	if exp.FearMax != nil && snap.Fear > *exp.FearMax+tolerance {
		return fmt.Errorf("expected fear <= %v, got %v", *exp.FearMax, snap.Fear)
	}
	if err := checkFloat("trust", exp.Trust, snap.Trust); err != nil {
		return err
	}
	if err := checkFloat("player_x", exp.PlayerX, snap.PlayerX); err != nil {
		return err
	}
	if err := checkFloat("dog_x", exp.DogX, snap.DogX); err != nil {
		return err
	}

	if exp.SitUnlocked != nil && snap.SitUnlocked != *exp.SitUnlocked {
		return fmt.Errorf("expected sit_unlocked to be %t, got %t", *exp.SitUnlocked, snap.SitUnlocked)
	}
	if exp.ConsecutiveTreats != nil && snap.ConsecutiveTreats != *exp.ConsecutiveTreats {
		return fmt.Errorf("expected consecutive_treats to be %d, got %d", *exp.ConsecutiveTreats, snap.ConsecutiveTreats)
	}
	if exp.DogMode != nil && string(snap.DogMode) != *exp.DogMode {
		return fmt.Errorf("expected dog_mode %q, got %q", *exp.DogMode, snap.DogMode)
	}
	if exp.HintContains != "" && !strings.Contains(strings.ToLower(snap.Hint), strings.ToLower(exp.HintContains)) {
		return fmt.Errorf("expected hint to contain '%s', got '%s'", exp.HintContains, snap.Hint)
	}

	// Expected events must appear in order, other events may sit between them
	next := 0
	for _, e := range events {
		if next < len(exp.Events) && e == exp.Events[next] {
			next++
		}
	}
	if next < len(exp.Events) {
		return fmt.Errorf("expected event '%s' (in order %v), got %v", exp.Events[next], exp.Events, events)
	}

	for _, unexpected := range exp.NotEvents {
		for _, e := range events {
			if e == unexpected {
				return fmt.Errorf("expected no '%s' event, got %v", unexpected, events)
			}
		}
	}

	return nil
}

func checkFloat(name string, want *float64, got float64) error {
	if want != nil && math.Abs(got-*want) > tolerance {
		return fmt.Errorf("expected %s to be %v, got %v", name, *want, got)
	}
	return nil
}
