package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"whisperd/internal/config"
	"whisperd/internal/deps"
	"whisperd/internal/logging"
	"whisperd/internal/model"
	"whisperd/internal/requestlog"
	"whisperd/internal/server"
	"whisperd/internal/whisper"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the transcription service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, logLevel)
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	return cmd
}

func runServe(cmdCtx context.Context, cfg *config.Config, logLevel string) error {
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	if strings.TrimSpace(logLevel) != "" {
		cfg.Logging.Level = logLevel
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	statuses := deps.CheckBinaries(deps.Defaults(cfg))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return fmt.Errorf("missing required external tools: %s", strings.Join(missing, ", "))
	}
	if status := deps.CheckModelFile(cfg.Model.Path); !status.Available {
		// The service still starts; transcription requests answer 503
		// until an operator provides the weights and restarts.
		logger.Warn("model weights unavailable", logging.String("detail", status.Detail))
	}

	lockPath := filepath.Join(cfg.Server.LogDir, "whisperd.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("another whisperd instance is already running")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release instance lock", logging.Error(err))
		}
	}()

	pidPath := filepath.Join(cfg.Server.LogDir, "whisperd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	recorder := requestlog.Disabled()
	if cfg.RequestLog.Enabled {
		store, err := requestlog.Open(cfg.RequestLog.Path, cfg.RequestLog.MaxFieldChars)
		if err != nil {
			return fmt.Errorf("open transcribe log: %w", err)
		}
		recorder = requestlog.NewRecorder(store, logger)
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Warn("failed to close transcribe log", logging.Error(err))
		}
	}()

	engine := whisper.NewEngine(whisper.Config{
		Binary:    cfg.Model.Binary,
		ModelPath: cfg.Model.Path,
		Device:    cfg.Model.Device,
	}, logger)
	manager := model.NewManager(engine, logger)
	manager.StartLoading(signalCtx)

	srv := server.New(cfg, manager, recorder, logger)
	if err := srv.Start(signalCtx); err != nil {
		return err
	}
	defer srv.Stop()

	logger.Info("whisperd started",
		logging.String("model", cfg.Model.Name),
		logging.String("device", cfg.Model.Device),
		logging.Int("max_concurrent", cfg.Transcribe.MaxConcurrent),
		logging.Bool("request_log", cfg.RequestLog.Enabled))

	<-signalCtx.Done()
	logger.Info("whisperd shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
