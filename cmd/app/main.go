package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/harvester/internal"
	pkgconfig "github.com/starford/harvester/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func authorize(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Authorize(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func customers(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Customers(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func canonicalize(ctx context.Context, cmd *cli.Command) error {
	text := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("canonicalize: material text is required")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Canonicalize(ctx, text, cmd.String("customer"),
		internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the MCP protocol; logs go to stderr.
	return internal.ServeMCP(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func main() {
	cmd := &cli.Command{
		Name:   "harvester",
		Usage:  "Harvest upstream invoices, canonicalize materials and publish trade contracts downstream",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Run one harvest (default)",
				Action: run,
			},
			{
				Name:   "authorize",
				Usage:  "Run the consent flow and store fresh upstream tokens",
				Action: authorize,
			},
			{
				Name:   "customers",
				Usage:  "Dump the upstream customer directory",
				Action: customers,
			},
			{
				Name:      "canonicalize",
				Usage:     "Print the canonical label of a material description",
				ArgsUsage: "<text>",
				Action:    canonicalize,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "customer",
						Usage: "Customer display name for per-customer overrides",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve operator tools over MCP on stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
