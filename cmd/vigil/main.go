package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "vigil",
		Usage:   "chat spam/abuse decision daemon",
		Version: versioninfo.Short(),
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "database for the training corpus and persisted models",
			Value:   "sqlite://data/vigil/vigil.db",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis URL for counters and account flags; in-memory stores when empty",
			EnvVars: []string{"VIGIL_REDIS_URL", "REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "sets-json-path",
			Usage:   "file path of JSON file containing phrase sets (spam keywords, casino phrases, allowlists)",
			EnvVars: []string{"VIGIL_SETS_JSON_PATH"},
		},
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for the decision API",
			Value:   ":3999",
			EnvVars: []string{"VIGIL_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3998",
			EnvVars: []string{"VIGIL_METRICS_LISTEN"},
		},
		&cli.StringSliceFlag{
			Name:    "blocked-scripts",
			Usage:   "script families to ban outright (han, hangul, cyrillic, kana, arabic, thai)",
			EnvVars: []string{"VIGIL_BLOCKED_SCRIPTS"},
		},
		&cli.IntFlag{
			Name:    "retrain-every",
			Usage:   "retrain the classifier after this many new corpus samples",
			Value:   10,
			EnvVars: []string{"VIGIL_RETRAIN_EVERY"},
		},
		&cli.BoolFlag{
			Name:    "skip-seed-corpus",
			Usage:   "do not load the built-in seed training corpus at startup",
			EnvVars: []string{"VIGIL_SKIP_SEED_CORPUS"},
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		srv, err := NewServer(Config{
			Logger:         logger,
			DatabaseURL:    cctx.String("database-url"),
			RedisURL:       cctx.String("redis-url"),
			SetsFileJSON:   cctx.String("sets-json-path"),
			Bind:           cctx.String("bind"),
			BlockedScripts: cctx.StringSlice("blocked-scripts"),
			RetrainEvery:   cctx.Int("retrain-every"),
			SkipSeedCorpus: cctx.Bool("skip-seed-corpus"),
		})
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		if err := srv.RunAPI(); err != nil {
			return fmt.Errorf("failed to run decision service: %w", err)
		}
		return nil
	},
}
