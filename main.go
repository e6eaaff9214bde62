package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pointr/internal/api"
	"pointr/internal/cache"
	"pointr/internal/config"
	"pointr/internal/points"
	"pointr/internal/store"
	"pointr/internal/tui"
)

func main() {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	local, err := store.New(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer local.Close()

	client := api.New(cfg.API.BaseURL, local)

	refs := cache.New(client, local)
	// Warm start from the last snapshot; the views refresh on entry.
	if err := refs.WarmFromSnapshot(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stale reference snapshot: %v\n", err)
	}

	engine := points.NewEngine(client, refs)

	token, _ := local.Token()
	app := tui.NewApp(client, local, refs, engine, cfg.API.BaseURL, token != "")
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
