package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/lull/internal/app"
	"github.com/llehouerou/lull/internal/config"
	"github.com/llehouerou/lull/internal/errmsg"
	"github.com/llehouerou/lull/internal/logging"
	"github.com/llehouerou/lull/internal/mpris"
	"github.com/llehouerou/lull/internal/network"
	"github.com/llehouerou/lull/internal/notify"
	"github.com/llehouerou/lull/internal/playback"
	"github.com/llehouerou/lull/internal/player"
	"github.com/llehouerou/lull/internal/state"
	"github.com/llehouerou/lull/internal/stderr"
)

var (
	configFile string
	logStderr  bool

	cfg       *config.Config
	logger    zerolog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "lull",
	Short:         "Ambient radio for falling asleep",
	Long:          "lull plays ambient internet radio with a sleep timer and a wifi-only guard.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlayer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "additional config file, loaded last")
	rootCmd.PersistentFlags().BoolVar(&logStderr, "log-stderr", false, "log to stderr instead of the log file")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return setup()
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}
	rootCmd.AddCommand(streamsCmd, wifiOnlyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and logging for every command.
func setup() error {
	var extra []string
	if configFile != "" {
		extra = append(extra, configFile)
	}

	var err error
	cfg, err = config.Load(extra...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err = logging.Setup(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Stderr: logStderr,
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	return nil
}

func openStore() (*state.Manager, error) {
	store, err := state.Open(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.OpInitialize, err)
	}
	return store, nil
}

func newPolicy(store *state.Manager) *network.Policy {
	nc := cfg.GetNetworkConfig()
	detector := network.NewDetector(nc.ProbeTimeout(), *nc.AssumeWifi, logger)
	return network.NewPolicy(detector, store, logger)
}

func runPlayer(cmd *cobra.Command, _ []string) error {
	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("load streams: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if !logStderr {
		restore, err := stderr.Capture(logger)
		if err != nil {
			logger.Warn().Err(err).Msg("stderr capture unavailable")
		}
		defer restore()
	}

	audio := cfg.GetAudioConfig()
	engine := player.New(player.NewSpeakerBackend(player.SpeakerConfig{
		BufferSize:  audio.BufferSize(),
		UserAgent:   audio.UserAgent,
		ReadTimeout: audio.ReadTimeout(),
	}, logger), logger)

	session := playback.New(cat, engine, newPolicy(store), store,
		playback.Options{FadeWindow: audio.FadeWindow()}, logger)
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error().Err(err).Msg("close session")
		}
	}()

	adapter, err := mpris.New(session, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer adapter.Close()
	}

	var opts app.Options
	if cfg.NotifyErrors() {
		notifier, _ := notify.New()
		opts.Reporter = notify.NewReporter(notifier, logger)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Int("streams", cat.Len()).Msg("lull starting")
	prog := tea.NewProgram(app.New(session, opts), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info().Msg("lull stopped")
	return nil
}
