package dog

import "testing"

func TestBehavior_ExecuteCommand(t *testing.T) {
	tests := []struct {
		name      string
		commands  []Command
		mode      Mode
		sitting   bool
		staying   bool
		following bool
	}{
		{name: "no command yet", mode: ModeNone},
		{name: "sit", commands: []Command{CommandSit}, mode: ModeSit, sitting: true},
		{name: "stay", commands: []Command{CommandStay}, mode: ModeStay, staying: true},
		{name: "follow", commands: []Command{CommandFollow}, mode: ModeFollow, following: true},
		{name: "follow then sit", commands: []Command{CommandFollow, CommandSit}, mode: ModeSit, sitting: true},
		{name: "repeat stay", commands: []Command{CommandStay, CommandStay}, mode: ModeStay, staying: true},
		{name: "unknown clears", commands: []Command{CommandFollow, Command("roll")}, mode: ModeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			for _, c := range tt.commands {
				b.ExecuteCommand(c)
			}
			if b.Mode() != tt.mode {
				t.Errorf("Mode() = %q, want %q", b.Mode(), tt.mode)
			}
			if b.IsSitting() != tt.sitting || b.IsStaying() != tt.staying || b.IsFollowing() != tt.following {
				t.Errorf("flags = sit:%v stay:%v follow:%v", b.IsSitting(), b.IsStaying(), b.IsFollowing())
			}
		})
	}
}

func TestCommand_Valid(t *testing.T) {
	for _, c := range []Command{CommandSit, CommandStay, CommandFollow} {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if ModeNone.Valid() || Command("beg").Valid() {
		t.Error("empty and unknown commands should be invalid")
	}
}

func TestFollowStep(t *testing.T) {
	tests := []struct {
		name     string
		dogX     float64
		targetX  float64
		speed    float64
		dt       float64
		expected float64
	}{
		{name: "moves right", dogX: 0, targetX: 10, speed: 3, dt: 1, expected: 3},
		{name: "moves left", dogX: 10, targetX: 0, speed: 3, dt: 0.5, expected: 8.5},
		{name: "no overshoot", dogX: 0, targetX: 1, speed: 3, dt: 1, expected: 1},
		{name: "already there", dogX: 2, targetX: 2, speed: 3, dt: 1, expected: 2},
		{name: "zero dt", dogX: 0, targetX: 5, speed: 3, dt: 0, expected: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FollowStep(tt.dogX, tt.targetX, tt.speed, tt.dt); got != tt.expected {
				t.Errorf("FollowStep() = %v, want %v", got, tt.expected)
			}
		})
	}
}
