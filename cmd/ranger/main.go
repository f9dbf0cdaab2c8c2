// Command-line tool for one-off account analysis, sharing the scoring
// pipeline with rangerd but printing the result to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"

	"github.com/reddit-ranger/ranger/detect/cachestore"
	"github.com/reddit-ranger/ranger/detect/engine"
	"github.com/reddit-ranger/ranger/detect/features"
	"github.com/reddit-ranger/ranger/reddit"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "ranger",
		Usage:   "analyze a single account for bot-likelihood",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "reddit-host",
			Usage:   "scheme, hostname, and port of the upstream data source",
			Value:   reddit.DefaultHost,
			EnvVars: []string{"RANGER_REDDIT_HOST"},
		},
		&cli.StringFlag{
			Name:    "weights-file",
			Usage:   "JSON file overriding the built-in score weight table",
			EnvVars: []string{"RANGER_WEIGHTS_FILE"},
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "include per-feature scores and rationales in output",
		},
	}

	app.Commands = []*cli.Command{
		analyzeCmd,
	}

	return app.Run(args)
}

var analyzeCmd = &cli.Command{
	Name:      "analyze",
	Usage:     "fetch an account's history and print its analysis",
	ArgsUsage: "<username>",
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		username := cctx.Args().First()
		if username == "" {
			return fmt.Errorf("expected a username argument")
		}

		logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))

		weights := engine.DefaultWeights()
		if p := cctx.String("weights-file"); p != "" {
			if err := weights.LoadFromFileJSON(p); err != nil {
				return fmt.Errorf("loading weight config: %w", err)
			}
		}

		eng := &engine.Engine{
			Logger:   logger,
			Fetcher:  reddit.NewClient(cctx.String("reddit-host")),
			Cache:    cachestore.NewMemCacheStore(time.Minute),
			Weights:  weights,
			Features: features.DefaultConfig(),
		}

		res, err := eng.Analyze(ctx, username)
		if err != nil {
			return err
		}

		if !cctx.Bool("verbose") {
			res.Features = nil
		}
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}
