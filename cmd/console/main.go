package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jwebster45206/vignette-engine/internal/logger"
	"github.com/jwebster45206/vignette-engine/internal/storage"
	"github.com/jwebster45206/vignette-engine/pkg/session"
)

type ConsoleConfig struct {
	DataDir  string
	Level    string
	TickRate time.Duration
}

func main() {
	cfg := &ConsoleConfig{
		DataDir:  getEnv("DATA_DIR", "./data"),
		Level:    os.Getenv("LEVEL"),
		TickRate: 50 * time.Millisecond,
	}

	// The alt screen owns stdout, so engine logs go nowhere.
	store := storage.NewMemoryStore(cfg.DataDir, logger.Discard())

	levelName, err := chooseLevel(store, cfg.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list levels: %v\n", err)
		os.Exit(1)
	}

	levelCfg := session.DefaultConfig()
	if levelName != "" {
		levelCfg, err = store.GetLevel(context.Background(), levelName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load level %s: %v\n", levelName, err)
			os.Exit(1)
		}
	}

	ui, err := NewConsoleUI(cfg, levelName, levelCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start session: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// chooseLevel returns the level to play. An empty name means the built-in
// default level.
func chooseLevel(store *storage.MemoryStore, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}

	names, err := store.ListLevels(context.Background())
	if err != nil {
		return "", err
	}
	switch len(names) {
	case 0:
		return "", nil
	case 1:
		return names[0], nil
	}

	fmt.Println("Available Levels:")
	for i, name := range names {
		fmt.Printf("  %d - %s\n", i+1, name)
	}
	fmt.Print("\nSelect a level by number: ")

	var choice int
	if _, err := fmt.Scanf("%d", &choice); err != nil || choice < 1 || choice > len(names) {
		return "", fmt.Errorf("invalid selection")
	}
	return names[choice-1], nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
