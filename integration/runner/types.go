package runner

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStepDT is used when a step leaves dt unset.
const DefaultStepDT = 0.1

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `json:"name"`
	Level string     `json:"level,omitempty"` // Used for regular tests; empty plays the default level
	Steps []TestStep `json:"steps,omitempty"` // Used for regular tests
	Cases []string   `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep defines a single test interaction and its expected outcomes.
// Enqueue commands go through the command queue before the first step;
// Commands ride inline on the first step. The step is then repeated
// Repeat times with the same axis and run flag.
type TestStep struct {
	Name         string       `json:"name,omitempty"`
	DT           float64      `json:"dt,omitempty"`
	Repeat       int          `json:"repeat,omitempty"`
	Axis         float64      `json:"axis,omitempty"`
	Run          bool         `json:"run,omitempty"`
	Commands     []string     `json:"commands,omitempty"`
	Enqueue      []string     `json:"enqueue,omitempty"`
	Expectations Expectations `json:"expect"`
}

// Expectations defines what to check after a test step executes.
// Numeric checks allow a small tolerance.
type Expectations struct {
	// Snapshot properties - aligned with pkg/session/session.go
	Outcome           *string  `json:"outcome,omitempty"`
	LossReason        *string  `json:"loss_reason,omitempty"`
	Fear              *float64 `json:"fear,omitempty"`
	FearMin           *float64 `json:"fear_min,omitempty"`
	FearMax           *float64 `json:"fear_max,omitempty"`
	Trust             *float64 `json:"trust,omitempty"`
	SitUnlocked       *bool    `json:"sit_unlocked,omitempty"`
	ConsecutiveTreats *int     `json:"consecutive_treats,omitempty"`
	DogMode           *string  `json:"dog_mode,omitempty"`
	PlayerX           *float64 `json:"player_x,omitempty"`
	DogX              *float64 `json:"dog_x,omitempty"`
	HintContains      string   `json:"hint_contains,omitempty"`

	// Event Analysis
	Events    []string `json:"events,omitempty"`     // must appear, in this order, across the step's repeats
	NotEvents []string `json:"not_events,omitempty"` // must not appear at all
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Events   []string
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job       TestJob
	Results   []TestResult
	Error     error
	Duration  time.Duration
	SessionID uuid.UUID // ID of the session used for this test
}
