package logger

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Path  string
	Debug bool
}

var (
	mu      sync.RWMutex
	global  = zerolog.Nop()
	logFile *os.File
	logPath string
)

// Setup points the global logger at a JSON lines file. The terminal is
// owned by the UI, so nothing is ever written to stdout or stderr. On
// failure the logger discards everything.
func Setup(cfg Config) (func() error, error) {
	if cfg.Path == "" {
		setDiscard()
		return nil, errors.New("logger: empty path")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		setDiscard()
		return nil, err
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		setDiscard()
		return nil, err
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	ctx := zerolog.New(f).Level(level).With().Timestamp()
	if cfg.Debug {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()

	mu.Lock()
	global = l
	logFile = f
	logPath = cfg.Path
	mu.Unlock()

	l.Info().Str("path", cfg.Path).Bool("debug", cfg.Debug).Msg("logger.initialized")

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		global = zerolog.Nop()
		return cerr
	}

	return cleanup, nil
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := global
	return &l
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func setDiscard() {
	mu.Lock()
	defer mu.Unlock()
	global = zerolog.Nop()
	logFile = nil
	logPath = ""
}

func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if logFile == nil || logPath == "" {
		return errors.New("logger not initialized")
	}
	return nil
}
