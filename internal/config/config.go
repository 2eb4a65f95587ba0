// Package config loads process settings from the environment and
// conversion profiles from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/cellbook-go/pkg/cellbook"
)

// EnvConfig holds the settings read from CELLBOOK_* variables.
type EnvConfig struct {
	LogFile       string
	LogLevel      string
	Profile       string
	DefaultFormat string
	Pretty        bool
}

// LoadEnvConfig reads the optional files (".env" when none are given) into
// the environment and returns the resulting settings. Variables already set
// take precedence over the files.
func LoadEnvConfig(files ...string) (*EnvConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	return &EnvConfig{
		LogFile:       getEnvString("CELLBOOK_LOG_FILE", ""),
		LogLevel:      getEnvString("CELLBOOK_LOG_LEVEL", "info"),
		Profile:       getEnvString("CELLBOOK_PROFILE", ""),
		DefaultFormat: getEnvString("CELLBOOK_DEFAULT_FORMAT", string(cellbook.FormatMarkdown)),
		Pretty:        getEnvBool("CELLBOOK_PRETTY", false),
	}, nil
}

// LoadProfile decodes a YAML conversion profile on top of
// cellbook.DefaultOptions and validates the result.
func LoadProfile(path string) (cellbook.Options, error) {
	opts := cellbook.DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("profile %s: %w", path, err)
	}
	return opts, nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
