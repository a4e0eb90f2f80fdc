package config

import (
	"fmt"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Remote  RemoteConfig  `yaml:"remote"`
	Sync    SyncConfig    `yaml:"sync"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	View    ViewConfig    `yaml:"view"`
}

// ViewConfig styles the terminal client.
type ViewConfig struct {
	SyntaxStyle string `yaml:"syntax_style" default:"monokai"`
	Formatter   string `yaml:"formatter" default:"terminal256"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

// RemoteConfig locates the posts collection the client mirrors.
type RemoteConfig struct {
	BaseURL    string        `yaml:"base_url" default:"http://localhost:3001"`
	Collection string        `yaml:"collection" default:"posts"`
	Timeout    time.Duration `yaml:"timeout" default:"10s"`
	UserAgent  string        `yaml:"user_agent" default:"postboard/1.0"`
}

type SyncConfig struct {
	// Adopt the server's response body after an update instead of merging locally.
	ReconcileUpdates bool `yaml:"reconcile_updates" default:"false"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"127.0.0.1"`
	Port string `yaml:"port" default:"3001"`
}

type StoreConfig struct {
	Backend     string `yaml:"backend" default:"memory"`
	SQLitePath  string `yaml:"sqlite_path" default:"./posts.db"`
	Compression string `yaml:"compression" default:"zstd"`
	S3Bucket    string `yaml:"s3_bucket" default:""`
	S3Endpoint  string `yaml:"s3_endpoint" default:""`
	S3Region    string `yaml:"s3_region" default:"auto"`
	S3Prefix    string `yaml:"s3_prefix" default:"posts/"`

	// Static credentials; when empty the default AWS credential chain is used.
	S3AccessKeyID     string `yaml:"s3_access_key_id" default:""`
	S3SecretAccessKey string `yaml:"s3_secret_access_key" default:""`
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"

	CompressionZstd = "zstd"
	CompressionGzip = "gzip"
	CompressionNone = "none"
)

const (
	EnvRemoteURL = "POSTBOARD_REMOTE_URL"
	EnvLogLevel  = "POSTBOARD_LOG_LEVEL"
	EnvStore     = "POSTBOARD_STORE"
)

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	ApplyEnv(config)

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	AppConfig = config
	return nil
}

// BootstrapLevel is the log level to use before the config file is read: the environment
// override when set, info otherwise.
func BootstrapLevel() string {
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}
	return "info"
}

// ApplyEnv overrides file values with the POSTBOARD_* environment variables that are set.
func ApplyEnv(config *Config) {
	if v := os.Getenv(EnvRemoteURL); v != "" {
		config.Remote.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		config.Store.Backend = v
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Remote.BaseURL)
	if err != nil {
		return fmt.Errorf("remote.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("remote.base_url: unsupported scheme %q", u.Scheme)
	}
	if strings.Trim(c.Remote.Collection, "/") == "" {
		return fmt.Errorf("remote.collection must not be empty")
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be positive, got %s", c.Remote.Timeout)
	}

	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	case BackendS3:
		if c.Store.S3Bucket == "" {
			return fmt.Errorf("store.s3_bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("store.backend: unsupported backend %q", c.Store.Backend)
	}

	switch c.Store.Compression {
	case CompressionZstd, CompressionGzip, CompressionNone:
	default:
		return fmt.Errorf("store.compression: unsupported compression %q", c.Store.Compression)
	}

	return nil
}

// Addr is the listen address of the development server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int, reflect.Int64:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
