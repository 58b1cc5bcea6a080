package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipeshare/internal/config"
	logpkg "github.com/kailas-cloud/recipeshare/internal/logger"
	"github.com/kailas-cloud/recipeshare/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "recipeshare",
		Usage:   "Recipe sharing API server",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env",
				Usage:   "Environment name; selects config/<env>.yaml",
				Sources: cli.EnvVars("ENV"),
				Value:   "local",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a config file, overrides --env lookup",
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			seedTagsCmd(),
			versionCmd(),
		},
		DefaultCommand: "serve",
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			logger.Info("Starting recipeshare API server",
				zap.String("version", version.Version),
				zap.String("commit", version.Commit),
				zap.String("env", env),
				zap.Int("http_port", cfg.HTTP.Port),
				zap.String("db_driver", cfg.Database.Driver),
				zap.Strings("db_addrs", cfg.Database.Addrs),
			)
			return serve(ctx, cfg, logger)
		},
	}
}

func seedTagsCmd() *cli.Command {
	return &cli.Command{
		Name:  "seed-tags",
		Usage: "Create the tags listed in a YAML file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "YAML file with a top-level tags list",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			env, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			names, err := readTagFile(cmd.String("file"))
			if err != nil {
				return err
			}
			created, err := seedTags(ctx, cfg, logger, names)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.Root().Writer, "created %d of %d tags\n", created, len(names))
			return nil
		},
	}
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, _ = fmt.Fprintln(cmd.Root().Writer, "recipeshare "+version.String())
			return nil
		},
	}
}

// loadConfig reads --config when set, config/<env>.yaml otherwise.
func loadConfig(cmd *cli.Command) (string, config.Config, error) {
	env := cmd.String("env")
	var (
		cfg config.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return "", config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return env, cfg, nil
}
