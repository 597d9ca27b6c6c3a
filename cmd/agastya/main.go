// Copyright 2025 ZoomRx, Inc.
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
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/shanxter/Agastya"
	"github.com/shanxter/Agastya/ai"
	"github.com/shanxter/Agastya/ai/openai"
	"github.com/shanxter/Agastya/ingestion"
	"github.com/shanxter/Agastya/maintenance"
	"github.com/shanxter/Agastya/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "agastya",
		Usage: "Query assistant for healthcare professional panelists",
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
				Name:      "ask",
				Usage:     "Answer a single question",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the corpus database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "panel-dsn",
						Usage: "Postgres connection string for panelist data",
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "Session id for follow-up continuity",
					},
					&cli.Int64Flag{
						Name:  "user",
						Usage: "Panelist user id for panel questions",
					},
				),
			},
			{
				Name:   "ingest",
				Usage:  "Pull documents from sources into the corpus",
				Action: ingestCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the corpus database directory",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Document source as name=path or a bare JSON file path (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "schedule",
						Usage: "Cron spec to run continuously instead of once (e.g. @hourly)",
					},
				),
			},
			{
				Name:   "sweep",
				Usage:  "Remove corpus chunks older than the retention window",
				Action: sweepCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the corpus database directory",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "max-age",
						Usage: "Maximum publication age to keep",
						Value: maintenance.DefaultMaxAge,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate every chunk embedding with a new model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the corpus database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags are the model endpoint flags shared by commands that talk to
// the embedding or completion services.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL for both models",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "completion-model",
			Usage: "Completion model name",
			Value: "gpt-4o-mini",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "API token for the AI services",
			EnvVars: []string{"AGASTYA_AI_TOKEN"},
		},
	}
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCompletionModel(c.String("completion-model")),
	}
	if token := c.String("token"); token != "" {
		opts = append(opts, ai.WithToken(token))
	}
	return ai.NewConfig(opts...)
}

func askCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a question is required")
	}

	ctx := context.Background()
	assistant, err := agastya.New(ctx, &agastya.Config{
		DataPath: c.String("db"),
		PanelDSN: c.String("panel-dsn"),
		AI:       aiConfigFromFlags(c),
	})
	if err != nil {
		return err
	}
	defer assistant.Close()

	answer, err := assistant.Ask(ctx, c.String("session"), c.Int64("user"), query)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	if len(answer.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range answer.Sources {
			if src.URL != "" {
				fmt.Printf("  - %s (%s)\n", src.Title, src.URL)
			} else {
				fmt.Printf("  - %s\n", src.Title)
			}
		}
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	sources, err := parseSources(c.StringSlice("input"))
	if err != nil {
		return err
	}

	ctx := context.Background()
	assistant, err := agastya.New(ctx, &agastya.Config{
		DataPath: c.String("db"),
		AI:       aiConfigFromFlags(c),
	}, agastya.WithSources(sources...))
	if err != nil {
		return err
	}
	defer assistant.Close()

	pipeline := assistant.IngestionPipeline()

	if spec := c.String("schedule"); spec != "" {
		scheduler, err := ingestion.NewScheduler(pipeline, spec, slog.Default())
		if err != nil {
			return err
		}
		scheduler.Start()
		fmt.Fprintf(os.Stderr, "ingesting on schedule %q, Ctrl-C to stop\n", spec)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		scheduler.Stop()
		return nil
	}

	report, err := pipeline.RunCycle(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("fetched %d, indexed %d, skipped %d duplicates\n",
		report.Fetched, report.NewlyIndexed, report.SkippedDuplicate)
	for source, msg := range report.Failed {
		fmt.Fprintf(os.Stderr, "source %s failed: %s\n", source, msg)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d source(s) failed", len(report.Failed))
	}
	return nil
}

// parseSources turns name=path flags into file sources. A bare path
// gets its base name, minus the extension, as the source name.
func parseSources(inputs []string) ([]ingestion.Source, error) {
	sources := make([]ingestion.Source, 0, len(inputs))
	for _, input := range inputs {
		name, path, found := strings.Cut(input, "=")
		if !found {
			path = input
			base := filepath.Base(path)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		if name == "" || path == "" {
			return nil, fmt.Errorf("invalid input %q: expected name=path", input)
		}
		sources = append(sources, &ingestion.FileSource{SourceName: name, Path: path})
	}
	return sources, nil
}

func sweepCommand(c *cli.Context) error {
	store, err := badger.NewStore(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	sweeper, err := maintenance.NewRetentionSweeper(store, slog.Default())
	if err != nil {
		return err
	}

	removed, err := sweeper.Sweep(context.Background(), c.Duration("max-age"))
	if err != nil {
		return err
	}
	fmt.Printf("removed %d chunk(s)\n", removed)
	return nil
}

func reembedCommand(c *cli.Context) error {
	store, err := badger.NewStore(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	config := &maintenance.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := maintenance.NewReembedder(store, embedder, config, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
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
