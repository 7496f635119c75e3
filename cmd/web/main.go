package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"rowduel/internal/config"
	"rowduel/internal/web"
)

func main() {
	// A missing .env file is fine; environment overrides are optional.
	_ = godotenv.Load()

	cfg := config.Load()

	port := flag.Int("port", cfg.HTTPPort, "HTTP port to listen on")
	decksFile := flag.String("decks", cfg.DecksFile, "path to decks YAML file")
	flag.Parse()

	cfg.HTTPPort = *port
	cfg.DecksFile = *decksFile

	srv := web.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Printf("rowduel listening on http://localhost:%d", cfg.HTTPPort)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
