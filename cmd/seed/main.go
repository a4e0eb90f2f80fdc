package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/debemdeboas/postboard/internal/config"
	"github.com/debemdeboas/postboard/internal/logger"
	"github.com/debemdeboas/postboard/internal/model"
	"github.com/debemdeboas/postboard/internal/remote"
)

// seed creates every post of a JSON file through the remote collection.
func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file loaded")
	}

	configPath := flag.String("config", config.DefaultConfigPath, "Path to the YAML config file")
	path := flag.String("file", "", "JSON file holding an array of {\"title\", \"body\"} objects")
	flag.Parse()

	if *path == "" {
		log.Fatal("The --file flag is required")
	}

	config.SetLogger(logger.New(config.BootstrapLevel(), "seed"))
	if err := config.LoadConfig(*configPath); err != nil {
		log.Fatal(err)
	}

	l := logger.New(config.AppConfig.Logging.Level, "seed")
	config.SetLogger(l)
	remote.SetLogger(l)

	rc, err := remote.NewFromConfig(config.AppConfig.Remote)
	if err != nil {
		l.Fatal().Err(err).Msg("Invalid remote configuration")
	}

	requests, err := readRequests(*path)
	if err != nil {
		l.Fatal().Err(err).Str("file", *path).Msg("Error reading seed file")
	}

	created, err := seed(context.Background(), rc, requests)
	if err != nil {
		l.Error().Err(err).Int("created", created).Msg(config.ErrCreatingPost)
		os.Exit(1)
	}
	l.Info().Int("created", created).Str("collection", rc.URL()).Msg("Seeding finished")
}

func readRequests(path string) ([]model.PostRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var requests []model.PostRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	for i, req := range requests {
		if req.Title == "" || req.Body == "" {
			return nil, fmt.Errorf("entry %d: %s", i, config.MsgFillAllFields)
		}
	}
	return requests, nil
}

// seed stops at the first failure and reports how many posts were created before it.
func seed(ctx context.Context, rc remote.Collection, requests []model.PostRequest) (int, error) {
	for i, req := range requests {
		post, err := rc.Create(ctx, req)
		if err != nil {
			return i, err
		}
		log.Printf("Created post %s: %s", post.ID, post.Title)
	}
	return len(requests), nil
}
