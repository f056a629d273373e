package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VitaminP8/blogql/graph"
	"github.com/VitaminP8/blogql/internal/auth"
	"github.com/VitaminP8/blogql/internal/config"
	"github.com/VitaminP8/blogql/internal/logging"
	"github.com/VitaminP8/blogql/internal/metrics"
	"github.com/VitaminP8/blogql/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var envFile string

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Blog GraphQL API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			envErr := config.LoadEnv(envFile)

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if envErr != nil {
				logger.Warn("env file not loaded", zap.String("path", envFile), zap.Error(envErr))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&envFile, "config", config.DefaultEnvFile, "env file to load before reading the environment")
	flags.String("storage", config.StorageMemory, "storage backend: memory, postgres, sqlite3, mongo or badger")
	flags.Int("port", config.DefaultPort, "HTTP listen port")
	_ = v.BindPFlag("storage", flags.Lookup("storage"))
	_ = v.BindPFlag("port", flags.Lookup("port"))

	return cmd
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", zap.Error(err))
		}
	}()
	logger.Info("storage ready", zap.String("storage", cfg.Storage), zap.Bool("compat_mode", cfg.CompatMode))

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, loginToken is disabled")
	}
	tokens := auth.NewTokens(cfg.JWTSecret, auth.DefaultTokenTTL)

	m := metrics.New()
	resolver := graph.NewResolver(store, cfg.CompatMode, tokens)
	schema, err := graph.NewSchema(resolver, server.SchemaOptions(m, logger)...)
	if err != nil {
		return err
	}

	return server.New(cfg.Addr(), schema, tokens, m, logger).Run(ctx)
}
