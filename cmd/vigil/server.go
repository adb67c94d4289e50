package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	slogecho "github.com/samber/slog-echo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vigil-bot/vigil/automod"
	"github.com/vigil-bot/vigil/automod/classifier"
	"github.com/vigil-bot/vigil/automod/corpusstore"
	"github.com/vigil-bot/vigil/automod/countstore"
	"github.com/vigil-bot/vigil/automod/engine"
	"github.com/vigil-bot/vigil/automod/flagstore"
	"github.com/vigil-bot/vigil/automod/historystore"
	"github.com/vigil-bot/vigil/automod/rules"
	"github.com/vigil-bot/vigil/automod/setstore"
)

type Server struct {
	logger  *slog.Logger
	engine  *automod.Engine
	trainer *classifier.Trainer
	history historystore.HistoryStore
	echo    *echo.Echo
	httpd   *http.Server
}

type Config struct {
	Logger         *slog.Logger
	DatabaseURL    string
	RedisURL       string
	SetsFileJSON   string
	Bind           string
	BlockedScripts []string
	RetrainEvery   int
	SkipSeedCorpus bool
}

func NewServer(config Config) (*Server, error) {
	ctx := context.Background()
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	sets := setstore.NewMemSetStore()
	if config.SetsFileJSON != "" {
		if err := sets.LoadFromFileJSON(config.SetsFileJSON); err != nil {
			return nil, fmt.Errorf("initializing in-process setstore: %v", err)
		}
		logger.Info("loaded set config from JSON", "path", config.SetsFileJSON)
	}

	var counters countstore.CountStore
	var flags flagstore.FlagStore
	if config.RedisURL != "" {
		// check redis connection before wiring the stores
		opt, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %v", err)
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %v", err)
		}

		cnt, err := countstore.NewRedisCountStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis countstore: %v", err)
		}
		counters = cnt

		flg, err := flagstore.NewRedisFlagStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis flagstore: %v", err)
		}
		flags = flg
	} else {
		counters = countstore.NewMemCountStore()
		flags = flagstore.NewMemFlagStore()
	}

	db, err := setupDatabase(config.DatabaseURL)
	if err != nil {
		return nil, err
	}
	corpus, err := corpusstore.NewGormCorpusStore(db)
	if err != nil {
		return nil, fmt.Errorf("initializing corpus store: %v", err)
	}
	models, err := classifier.NewGormModelStore(db)
	if err != nil {
		return nil, fmt.Errorf("initializing model store: %v", err)
	}

	if !config.SkipSeedCorpus {
		if err := corpusstore.LoadSeedCorpus(ctx, corpus); err != nil {
			return nil, fmt.Errorf("loading seed corpus: %v", err)
		}
	}

	cls := &classifier.Classifier{}
	trainer := classifier.NewTrainer(logger, corpus, cls, models)
	if config.RetrainEvery > 0 {
		trainer.RetrainEvery = config.RetrainEvery
	}

	// restore the last persisted snapshot, or fit a fresh one in the
	// background if there is none yet
	snap, err := models.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading persisted model: %v", err)
	}
	if snap != nil {
		cls.Restore(snap)
		logger.Info("restored classifier snapshot", "version", snap.Version, "samples", snap.SampleCount)
	} else {
		if err := corpus.MarkFit(ctx); err != nil {
			return nil, err
		}
		trainer.KickRetrain()
	}

	engineConfig := engine.NewConfig()
	engineConfig.BlockedScripts = config.BlockedScripts
	if err := engineConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	history := historystore.NewMemHistoryStore(0, 0, 0)
	eng := automod.Engine{
		Logger:     logger,
		Rules:      rules.DefaultRules(),
		Counters:   counters,
		Sets:       sets,
		Flags:      flags,
		History:    history,
		Classifier: cls,
		Trainer:    trainer,
		Config:     engineConfig,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	srv := &Server{
		logger:  logger,
		engine:  &eng,
		trainer: trainer,
		history: history,
		echo:    e,
	}
	srv.httpd = &http.Server{
		Handler:        srv,
		Addr:           config.Bind,
		WriteTimeout:   time.Minute,
		ReadTimeout:    time.Minute,
		MaxHeaderBytes: 1 * (1024 * 1024),
	}

	e.GET("/_health", srv.HandleHealthCheck)
	e.POST("/v1/evaluate", srv.HandleEvaluate)
	e.POST("/v1/learn/spam", srv.HandleLearnSpam)
	e.POST("/v1/learn/ham", srv.HandleLearnHam)
	e.POST("/v1/admin/reset-warnings", srv.HandleResetWarnings)
	e.GET("/v1/model", srv.HandleModelInfo)

	return srv, nil
}

// parses a database URL of the form "sqlite://path/to/file.db" and opens it
func setupDatabase(dbURL string) (*gorm.DB, error) {
	p, ok := strings.CutPrefix(dbURL, "sqlite://")
	if !ok {
		return nil, fmt.Errorf("only sqlite:// database URLs are supported, got: %s", dbURL)
	}
	if p != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(p), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %v", err)
	}
	return db, nil
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	srv.echo.ServeHTTP(rw, req)
}

func (srv *Server) RunAPI() error {
	srv.logger.Info("starting server", "bind", srv.httpd.Addr)
	go func() {
		if err := srv.httpd.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				srv.logger.Error("HTTP server shutting down unexpectedly", "err", err)
			}
		}
	}()

	// Wait for a signal to exit.
	quit := make(chan struct{})
	exitSignals := make(chan os.Signal, 1)
	signal.Notify(exitSignals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-exitSignals
		srv.logger.Info("received OS exit signal", "signal", sig)

		if err := srv.Shutdown(); err != nil {
			srv.logger.Error("HTTP server shutdown error", "err", err)
		}
		close(quit)
	}()
	<-quit
	srv.logger.Info("graceful shutdown complete")
	return nil
}

func (srv *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

func (srv *Server) Shutdown() error {
	srv.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.httpd.Shutdown(ctx)
}
