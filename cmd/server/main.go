package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MaxLeedham/Chess/internal/config"
	"github.com/MaxLeedham/Chess/internal/game"
	"github.com/MaxLeedham/Chess/internal/httpx"
	"github.com/MaxLeedham/Chess/internal/store"
)

func main() {
	// Flags override the config file and CHESS_* environment.
	configPath := flag.String("config", getenv("CHESS_CONFIG", ""), "path to a TOML config file")
	addr := flag.String("addr", "", "listen address")
	size := flag.Int("size", 0, "board size (8 or 10)")
	database := flag.String("db", "", "SQLite results database; \"-\" disables recording")
	white := flag.String("white", "", "white player name")
	black := flag.String("black", "", "black player name")
	site := flag.String("site", "", "PGN Site tag")
	flag.Parse()

	cfg, err := config.Read(*configPath)
	fatalIf(err, "config")
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *size != 0 {
		cfg.BoardSize = *size
	}
	if *database != "" {
		cfg.Database = *database
	}
	if *white != "" {
		cfg.WhitePlayer = *white
	}
	if *black != "" {
		cfg.BlackPlayer = *black
	}
	if *site != "" {
		cfg.Site = *site
	}
	fatalIf(cfg.Validate(), "config")

	board, err := game.NewStandardBoard(cfg.BoardSize)
	fatalIf(err, "board")
	log.Printf("New %dx%d game: %s (white) vs %s (black)", cfg.BoardSize, cfg.BoardSize, cfg.WhitePlayer, cfg.BlackPlayer)

	var results httpx.ResultStore
	if cfg.Database != "-" {
		db, err := store.Open(cfg.Database)
		fatalIf(err, "results store")
		defer db.Close()
		results = db
		log.Printf("Recording results in %s", cfg.Database)
	} else {
		log.Printf("Result recording disabled")
	}

	srv := httpx.NewServer(board, results, httpx.Players{
		White: cfg.WhitePlayer,
		Black: cfg.BlackPlayer,
		Site:  cfg.Site,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(cfg.Addr) }()

	select {
	case err := <-errc:
		if err != nil {
			log.Printf("http: %v", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.Printf("shutdown: %v", err)
		}
		if err := <-errc; err != nil {
			log.Printf("http: %v", err)
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatalf("%s: %v", label, err)
	}
}
