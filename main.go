package main

import (
	"context"
	"fmt"
	"os"

	"crystal-mem/internal/config"
	"crystal-mem/internal/game"
	"crystal-mem/internal/logger"
	"crystal-mem/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		assetsDir  string
		logPath    string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:          "crystal-mem",
		Short:        "Find three matching crystals before anything else",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, ".env")
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("assets") {
				cfg.AssetsDir = assetsDir
			}
			if flags.Changed("log") {
				cfg.LogPath = logPath
			}
			if flags.Changed("debug") {
				cfg.Debug = debug
			}

			cleanup, _ := logger.Setup(logger.Config{
				Path:  cfg.LogPath,
				Debug: cfg.Debug,
			})
			if cleanup != nil {
				defer func() { _ = cleanup() }()
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&assetsDir, "assets", "", "directory with sprite sheets (defaults to the built-in ones)")
	cmd.Flags().StringVar(&logPath, "log", "", "log file path")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable verbose logging")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	popup := &ui.Popup{}
	sess, err := game.NewSession(cfg, popup)
	if err != nil {
		return fmt.Errorf("initializing game: %w", err)
	}

	log := logger.L()
	log.Info().
		Str("assets", cfg.AssetsDir).
		Dur("flight", cfg.FlightDuration).
		Int("fps", cfg.FPS).
		Msg("game.starting")

	model := wrapSafe(newLocalState(ctx, sess, popup), log)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program.failed")
		return fmt.Errorf("running program: %w", err)
	}

	log.Info().Int("rounds_won", sess.Game.Tally.Rounds()).Msg("game.finished")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
