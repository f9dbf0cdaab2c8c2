package main

import (
	"context"
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
		Name:    "rangerd",
		Usage:   "bot-likelihood analysis daemon",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "reddit-host",
			Usage:   "scheme, hostname, and port of the upstream data source",
			Value:   reddit.DefaultHost,
			EnvVars: []string{"RANGER_REDDIT_HOST"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the analysis service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for the analysis API",
			Value:   ":5100",
			EnvVars: []string{"RANGER_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics",
			Value:   ":5101",
			EnvVars: []string{"RANGER_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for the result cache; in-process cache when empty",
			EnvVars: []string{"RANGER_REDIS_URL"},
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "how long a cached analysis stays fresh",
			Value:   30 * time.Minute,
			EnvVars: []string{"RANGER_CACHE_TTL"},
		},
		&cli.DurationFlag{
			Name:    "cache-sweep-interval",
			Usage:   "how often the in-process cache purges expired entries",
			Value:   5 * time.Minute,
			EnvVars: []string{"RANGER_CACHE_SWEEP_INTERVAL"},
		},
		&cli.StringFlag{
			Name:    "weights-file",
			Usage:   "JSON file overriding the built-in score weight table",
			EnvVars: []string{"RANGER_WEIGHTS_FILE"},
		},
		&cli.StringFlag{
			Name:    "features-file",
			Usage:   "JSON file overriding extractor thresholds and match lists",
			EnvVars: []string{"RANGER_FEATURES_FILE"},
		},
		&cli.Float64Flag{
			Name:    "rate-limit",
			Usage:   "max analyze requests per second per client IP",
			Value:   0.5,
			EnvVars: []string{"RANGER_RATE_LIMIT"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		configOTEL("rangerd")

		weights := engine.DefaultWeights()
		if p := cctx.String("weights-file"); p != "" {
			if err := weights.LoadFromFileJSON(p); err != nil {
				return fmt.Errorf("loading weight config: %w", err)
			}
			logger.Info("loaded weight config", "path", p, "version", weights.Version)
		}

		featureCfg := features.DefaultConfig()
		if p := cctx.String("features-file"); p != "" {
			if err := featureCfg.LoadFromFileJSON(p); err != nil {
				return fmt.Errorf("loading feature config: %w", err)
			}
			logger.Info("loaded feature config", "path", p)
		}

		var cache cachestore.CacheStore
		if redisURL := cctx.String("redis-url"); redisURL != "" {
			rcs, err := cachestore.NewRedisCacheStore(redisURL, cctx.Duration("cache-ttl"))
			if err != nil {
				return fmt.Errorf("initializing redis cachestore: %w", err)
			}
			cache = rcs
		} else {
			mcs := cachestore.NewMemCacheStore(cctx.Duration("cache-ttl"))
			go mcs.RunSweeper(ctx, cctx.Duration("cache-sweep-interval"))
			cache = mcs
		}

		eng := &engine.Engine{
			Logger:   logger,
			Fetcher:  reddit.NewClient(cctx.String("reddit-host")),
			Cache:    cache,
			Weights:  weights,
			Features: featureCfg,
		}

		srv := NewServer(eng, Config{
			Logger:       logger,
			Bind:         cctx.String("bind"),
			RateLimitRPS: cctx.Float64("rate-limit"),
		})

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		return srv.RunAPI()
	},
}
