package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/veidar/munin/internal"
)

func loadOptions(cmd *cli.Command) ([]internal.Option, error) {
	cfg := internal.NewDefaultConfig()
	if err := internal.LoadConfig(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{internal.WithConfig(cfg)}
	if v := cmd.String("vault"); v != "" {
		opts = append(opts, internal.WithVaultPath(v))
	}
	if o := cmd.String("output"); o != "" {
		opts = append(opts, internal.WithOutputPath(o))
	}
	return opts, nil
}

func runConvert(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.RunConvert(ctx, opts...)
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.RunServe(ctx, opts...)
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, opts...)
}

func main() {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("MUNIN_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "vault",
			Aliases: []string{"v"},
			Usage:   "Path to the Obsidian vault folder",
			Sources: cli.EnvVars("MUNIN_VAULT"),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Path of the generated Ideaflow import document",
			Sources: cli.EnvVars("MUNIN_OUTPUT"),
		},
	}

	cmd := &cli.Command{
		Name:   "munin",
		Usage:  "Convert an Obsidian vault into an Ideaflow import document",
		Flags:  flags,
		Action: runConvert,
		Commands: []*cli.Command{
			{
				Name:   "convert",
				Usage:  "Convert the vault and write the import document (default)",
				Flags:  flags,
				Action: runConvert,
			},
			{
				Name:   "serve",
				Usage:  "Serve a live preview API of the converted vault",
				Flags:  flags,
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "Expose the converter as an MCP stdio server",
				Flags:  flags,
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
