// Package config holds client configuration and logger setup.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultGreeting is the seeded bot message shown when a session starts.
const DefaultGreeting = "Hi! Ask me a question about the OMOP healthcare database."

// Config holds all configuration values. It is built once at application
// start and injected into the session controller; there is no process-wide
// mutable configuration.
type Config struct {
	// AWS invoke target
	Region       string
	FunctionName string
	Profile      string

	// Manual credential entry (volatile; never written back anywhere)
	AccessKeyID     string
	SecretAccessKey string

	// Transcript seeding
	Greeting string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables, with a .env file
// (if present in the working directory) loaded first. Real environment
// variables win over .env values.
func Load() Config {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	return Config{
		Region:       getEnv("OMOPCHAT_REGION", "us-east-1"),
		FunctionName: getEnv("OMOPCHAT_FUNCTION", "IST2SQL"),
		Profile:      getEnv("OMOPCHAT_PROFILE", ""),

		AccessKeyID:     os.Getenv("OMOPCHAT_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("OMOPCHAT_SECRET_ACCESS_KEY"),

		Greeting: getEnv("OMOPCHAT_GREETING", DefaultGreeting),

		LogFile:  getEnv("OMOPCHAT_LOG_FILE", "/tmp/omopchat.log"),
		LogLevel: parseLogLevel(getEnv("OMOPCHAT_LOG_LEVEL", "INFO")),
	}
}

// LoadFile merges a YAML config file into cfg. Only fields present in the
// file override; credential material is never read from the file.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	var file struct {
		Region       string `yaml:"region"`
		FunctionName string `yaml:"function_name"`
		Profile      string `yaml:"profile"`
		Greeting     string `yaml:"greeting"`
		LogFile      string `yaml:"log_file"`
		LogLevel     string `yaml:"log_level"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}

	if file.Region != "" {
		cfg.Region = file.Region
	}
	if file.FunctionName != "" {
		cfg.FunctionName = file.FunctionName
	}
	if file.Profile != "" {
		cfg.Profile = file.Profile
	}
	if file.Greeting != "" {
		cfg.Greeting = file.Greeting
	}
	if file.LogFile != "" {
		cfg.LogFile = file.LogFile
	}
	if file.LogLevel != "" {
		cfg.LogLevel = parseLogLevel(file.LogLevel)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
