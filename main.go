package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/logger"
	"github.com/debemdeboas/postboard/internal/postlist"
	"github.com/debemdeboas/postboard/internal/remote"
	"github.com/debemdeboas/postboard/internal/view"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file loaded")
	}

	configPath := flag.String("config", config.DefaultConfigPath, "Path to the YAML config file")
	flag.Parse()

	config.SetLogger(logger.New(config.BootstrapLevel(), "postboard"))
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatal(err)
	}
	cfg := config.AppConfig

	l := logger.New(cfg.Logging.Level, "postboard")
	config.SetLogger(l)
	remote.SetLogger(l.With().Str("component", "remote").Logger())
	postlist.SetLogger(l.With().Str("component", "postlist").Logger())

	rc, err := remote.NewFromConfig(cfg.Remote)
	if err != nil {
		l.Fatal().Err(err).Msg("Invalid remote configuration")
	}

	controller := postlist.New(rc, postlist.Options{ReconcileUpdates: cfg.Sync.ReconcileUpdates})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(view.Info("Loading posts from %s", rc.URL()))
	if err := controller.Initialize(ctx); err != nil {
		fmt.Println(view.Error(err))
	}

	r := newREPL(controller, os.Stdin, os.Stdout, cfg.View)
	if err := r.Run(ctx); err != nil {
		fmt.Println("Error reading input:", err)
	}
}
