// Package config resolves runtime settings.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// an optional .env file, then CRYSTALS_* environment variables. Command line
// flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "CRYSTALS_"
	MaxFPS    = 1000
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// AssetsDir overrides the embedded sprites when set.
	AssetsDir string `yaml:"assets_dir" env:"ASSETS_DIR"`
	LogPath   string `yaml:"log_path" env:"LOG_PATH"`
	Debug     bool   `yaml:"debug" env:"DEBUG"`

	ResizeDebounce time.Duration `yaml:"resize_debounce" env:"RESIZE_DEBOUNCE"`
	FlightDuration time.Duration `yaml:"flight_duration" env:"FLIGHT_DURATION"`
	FPS            int           `yaml:"fps" env:"FPS"`
}

func Default() Config {
	return Config{
		LogPath:        defaultLogPath(),
		ResizeDebounce: 50 * time.Millisecond,
		FlightDuration: 600 * time.Millisecond,
		FPS:            60,
	}
}

func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "crystal-mem", "crystal-mem.log")
}

// Load builds a Config from the defaults, the YAML file at path and the
// dotenv file at dotenv. Either path may be empty. A missing dotenv file is
// not an error; a missing YAML file that was asked for is.
func Load(path, dotenv string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	vars := env.ToMap(os.Environ())
	if dotenv != "" {
		fileVars, err := godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read dotenv %s: %w", dotenv, err)
		}
		for k, v := range fileVars {
			if _, set := vars[k]; !set {
				vars[k] = v
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: vars,
	}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.FPS <= 0 || c.FPS > MaxFPS {
		return fmt.Errorf("%w: fps must be in 1..%d, got %d", ErrInvalidConfig, MaxFPS, c.FPS)
	}
	if c.ResizeDebounce < 0 {
		return fmt.Errorf("%w: resize_debounce must not be negative", ErrInvalidConfig)
	}
	if c.FlightDuration < 0 {
		return fmt.Errorf("%w: flight_duration must not be negative", ErrInvalidConfig)
	}
	return nil
}
