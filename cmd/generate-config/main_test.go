package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/debemdeboas/postboard/internal/config"
)

func TestGenerate(t *testing.T) {
	output, err := generate()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(output, header) {
		t.Error("Expected the example header")
	}

	// The generated file must load back to the defaults.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(output), 0644); err != nil {
		t.Fatalf(config.ErrCreateTempFileFmt, err)
	}

	t.Setenv(config.EnvRemoteURL, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvStore, "")
	if err := config.LoadConfig(path); err != nil {
		t.Fatalf("Expected generated config to load, got %v", err)
	}

	expected := config.Config{}
	config.ApplyDefaults(&expected)
	if *config.AppConfig != expected {
		t.Errorf("Expected defaults, got %+v", *config.AppConfig)
	}
}
