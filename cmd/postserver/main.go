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

	"github.com/joho/godotenv"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/db"
	"github.com/debemdeboas/postboard/internal/logger"
	"github.com/debemdeboas/postboard/internal/server"
	"github.com/debemdeboas/postboard/internal/store"
)

// postserver serves the posts collection the client talks to.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file loaded")
	}

	configPath := flag.String("config", config.DefaultConfigPath, "Path to the YAML config file")
	addr := flag.String("addr", "", "Listen address, overrides server.host and server.port")
	flag.Parse()

	config.SetLogger(logger.New(config.BootstrapLevel(), "postserver"))
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatal(err)
	}
	cfg := config.AppConfig

	l := logger.New(cfg.Logging.Level, "postserver")
	config.SetLogger(l)
	db.SetLogger(l.With().Str("component", "db").Logger())
	store.SetLogger(l.With().Str("component", "store").Logger())
	server.SetLogger(l.With().Str("component", "server").Logger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := store.New(ctx, cfg.Store)
	if err != nil {
		l.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg(config.ErrInitializingStore)
	}
	defer s.Close()

	listen := cfg.Server.Addr()
	if *addr != "" {
		listen = *addr
	}

	l.Info().Str("backend", cfg.Store.Backend).Str("addr", listen).Msg("Starting posts server")
	if err := server.New(s).ListenAndServe(ctx, listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error().Err(err).Msg("Server stopped")
	}
}
