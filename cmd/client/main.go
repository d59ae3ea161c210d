package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hersh/gotris/internal/config"
	"github.com/hersh/gotris/internal/netclient"
	"github.com/hersh/gotris/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	serverAddr := flag.String("server", cfg.ServerURL, "WebSocket server address")
	flag.Parse()

	if cfg.DebugLog != "" {
		f, err := tea.LogToFile(cfg.DebugLog, "gotris-client")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	// Connect to server
	client, err := netclient.New(*serverAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to server at %s: %v\n", *serverAddr, err)
		fmt.Fprintf(os.Stderr, "Make sure the server is running (go run ./cmd/server)\n")
		os.Exit(1)
	}
	defer client.Close()

	model := tui.NewRemoteModel(client)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	// Wire the program into the client so readPump can send tea.Msgs
	client.SetProgram(p)
	client.Start()

	// Run the TUI (blocking)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
