// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/skulink"
	"github.com/poiesic/skulink/search/elastic"
	"github.com/poiesic/skulink/storage/postgres"
	"github.com/urfave/cli/v2"
)

// testFeedURL is a public demo feed for --test runs.
const testFeedURL = "http://export.admitad.com/ru/webmaster/websites/777011/" +
	"products/export_adv_products/?user=bloggers_style&" +
	"code=uzztv9z1ss&feed_id=21908&format=xml"

func main() {
	app := &cli.App{
		Name:  "skulink",
		Usage: "Ingest a product feed and link similar products",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Download a feed, ingest it and link similar products",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "url",
						Aliases: []string{"u"},
						Usage:   "URL of the product feed XML",
					},
					&cli.BoolFlag{
						Name:    "test",
						Aliases: []string{"t"},
						Usage:   "Use the built-in demo feed URL",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Category name, also the search index name",
						Value: "products",
					},
					&cli.IntFlag{
						Name:    "concurrency",
						Aliases: []string{"c"},
						Usage:   "Concurrency limit: ingestion batch size and similarity page size",
						Value:   10,
					},
					&cli.IntFlag{
						Name:  "marketplace-id",
						Usage: "Marketplace id stamped on every record",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "feed-dir",
						Usage: "Directory the feed payload is downloaded into",
						Value: os.TempDir(),
					},
					&cli.BoolFlag{
						Name:  "lenient",
						Usage: "Skip offers that fail normalization instead of failing the run",
					},
				},
			},
			{
				Name:   "check",
				Usage:  "Print products joined with their linked similar products",
				Action: checkCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of join rows to print",
						Value: 70,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand(c *cli.Context) error {
	ctx := context.Background()

	url := c.String("url")
	if url == "" && c.Bool("test") {
		url = testFeedURL
	}
	if url == "" {
		return fmt.Errorf("no URL provided: use --url, or --test for the built-in demo feed")
	}

	concurrency := c.Int("concurrency")
	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than 0")
	}

	pgConfig := postgres.ConfigFromEnv()
	pgConfig.MaxConns = concurrency
	repo, err := postgres.Open(ctx, pgConfig)
	if err != nil {
		return fmt.Errorf("failed to open postgres: %w", err)
	}
	defer repo.Close()

	index, err := elastic.Open(elastic.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("failed to open elasticsearch: %w", err)
	}

	progress := newProgressReporter(os.Stderr)
	app, err := skulink.New(repo, index, c.String("category"),
		skulink.WithConcurrency(concurrency),
		skulink.WithMarketplaceID(c.Int("marketplace-id")),
		skulink.WithLenient(c.Bool("lenient")),
		skulink.WithFeedDir(c.String("feed-dir")),
		skulink.WithMonitors(progress, progress, progress),
	)
	if err != nil {
		return err
	}

	return app.Run(ctx, url)
}

func checkCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := postgres.Open(ctx, postgres.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("failed to open postgres: %w", err)
	}
	defer repo.Close()

	products, err := repo.LinkedProducts(ctx, c.Int("limit"))
	if err != nil {
		return err
	}

	for _, product := range products {
		fmt.Printf("\nProduct UUID: %s\nTitle: %s\nSimilar Products:\n", product.UUID, product.Title)
		for _, similar := range product.Similar {
			fmt.Printf(" - %s: %s\n", similar.UUID, similar.Title)
		}
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
