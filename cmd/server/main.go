package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hersh/gotris/internal/config"
	"github.com/hersh/gotris/internal/game"
	"github.com/hersh/gotris/internal/server"
	"github.com/hersh/gotris/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	port := flag.String("port", cfg.Port, "Listen port")
	scoreFile := flag.String("scores", cfg.TopScoreFile, "Top score file")
	randomizer := flag.String("randomizer", cfg.Randomizer, "Piece randomizer (uniform or bag)")
	seed := flag.Int64("seed", cfg.Seed, "Base random seed, offset per session (0 = time based)")
	flag.Parse()

	// Validate the randomizer name once up front; every session builds its own.
	if _, err := game.NewRandomizer(*randomizer, 1); err != nil {
		log.Fatalf("config: %v", err)
	}

	scores := store.NewFileStore(*scoreFile)
	var seeds int64
	registry := server.NewRegistry(server.Options{
		Scores: scores,
		NewRandomizer: func() game.Randomizer {
			seeds++
			s := time.Now().UnixNano()
			if *seed != 0 {
				s = *seed + seeds
			}
			rnd, _ := game.NewRandomizer(*randomizer, s)
			return rnd
		},
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", registry.Handler())

	// Simple health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: ":" + *port, Handler: mux}

	log.Printf("Gotris server starting on :%s", *port)
	log.Printf("WebSocket endpoint: ws://localhost:%s/ws", *port)
	log.Printf("Top score file: %s", scores.Path())

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	log.Println("Server shutting down...")

	registry.CloseAll()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
