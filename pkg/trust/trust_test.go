package trust

import "testing"

func TestModel_AddTrust(t *testing.T) {
	tests := []struct {
		name     string
		amounts  []float64
		expected float64
	}{
		{name: "starts at zero", expected: 0},
		{name: "treats stack", amounts: []float64{15, 15, 15}, expected: 45},
		{name: "penalty at zero stays at min", amounts: []float64{-5}, expected: 0},
		{name: "caps at max", amounts: []float64{60, 60}, expected: 100},
		{name: "huge negative after gains", amounts: []float64{30, -1e18}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(DefaultConfig())
			for _, a := range tt.amounts {
				m.AddTrust(a)
				if m.Current() < 0 || m.Current() > 100 {
					t.Fatalf("trust %v escaped [0, 100]", m.Current())
				}
			}
			if m.Current() != tt.expected {
				t.Errorf("Current() = %v, want %v", m.Current(), tt.expected)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
	if err := (Config{Min: 10, Max: 0}).Validate(); err == nil {
		t.Error("expected error for inverted bounds")
	}
	if err := (Config{Min: 0, Max: 100, Initial: -1}).Validate(); err == nil {
		t.Error("expected error for initial below min")
	}
}
