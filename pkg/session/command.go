package session

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Command is a player input that acts on the dog.
type Command string

const (
	CmdTreat  Command = "treat"
	CmdSit    Command = "sit"
	CmdStay   Command = "stay"
	CmdFollow Command = "follow"
	CmdNone   Command = "" // No command, used for fallback
)

// ParseCommand accepts command names and the keyboard shortcuts t, 1, 2, 3.
// Unknown input returns CmdNone.
func ParseCommand(input string) Command {
	known := map[string]Command{
		"treat":  CmdTreat,
		"t":      CmdTreat,
		"sit":    CmdSit,
		"1":      CmdSit,
		"stay":   CmdStay,
		"2":      CmdStay,
		"follow": CmdFollow,
		"3":      CmdFollow,
	}
	trimmed := strings.TrimSpace(strings.ToLower(input))
	if trimmed == "" {
		return CmdNone
	}
	if cmd, ok := known[trimmed]; ok {
		return cmd
	}
	return CmdNone
}

// UnmarshalJSON lets request bodies use either names or shortcuts.
func (c *Command) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cmd := ParseCommand(raw)
	if cmd == CmdNone {
		return fmt.Errorf("unknown command %q", raw)
	}
	*c = cmd
	return nil
}
