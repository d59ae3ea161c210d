package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hersh/gotris/internal/config"
	"github.com/hersh/gotris/internal/game"
	"github.com/hersh/gotris/internal/store"
	"github.com/hersh/gotris/internal/tui"
)

// This is the standalone single-player entry point.
// For remote play, use:
//   Server: go run ./cmd/server
//   Client: go run ./cmd/client --server ws://localhost:8080/ws

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scoreFile := flag.String("scores", cfg.TopScoreFile, "Top score file")
	randomizer := flag.String("randomizer", cfg.Randomizer, "Piece randomizer (uniform or bag)")
	seed := flag.Int64("seed", cfg.Seed, "Random seed (0 = time based)")
	flag.Parse()
	cfg.Seed = *seed

	if cfg.DebugLog != "" {
		f, err := tea.LogToFile(cfg.DebugLog, "gotris")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	rnd, err := game.NewRandomizer(*randomizer, cfg.SeedOrNow())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	round := game.NewRound(game.WithRandomizer(rnd))
	model := tui.NewLocalModel(round, store.NewFileStore(*scoreFile))

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
