package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kereso/internal/config"
	dbPostgres "github.com/kailas-cloud/kereso/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/kereso/internal/db/redis"
	"github.com/kailas-cloud/kereso/internal/domain/candidate"
	logpkg "github.com/kailas-cloud/kereso/internal/logger"
	"github.com/kailas-cloud/kereso/internal/metrics"
	"github.com/kailas-cloud/kereso/internal/repository/corpus"
	"github.com/kailas-cloud/kereso/internal/repository/searchcache"
	"github.com/kailas-cloud/kereso/internal/textmatch"
	chiTransport "github.com/kailas-cloud/kereso/internal/transport/chi"
	openaiSuggester "github.com/kailas-cloud/kereso/internal/transport/openai"
	healthuc "github.com/kailas-cloud/kereso/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kereso/internal/usecase/search"
	topicsuc "github.com/kailas-cloud/kereso/internal/usecase/topics"
	"github.com/kailas-cloud/kereso/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kereso search server",
		zap.String("build", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	ctx := context.Background()
	readyTimeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	// Corpus database
	pool, err := dbPostgres.NewPool(ctx, dbPostgres.Config{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
	})
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.WaitForReady(ctx, readyTimeout); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()
	metrics.RegisterLLMMetrics()

	engine, err := buildEngine(cfg.Search)
	if err != nil {
		logger.Fatal("Failed to build search engine", zap.Error(err))
	}
	logger.Info("Search rules loaded",
		zap.String("rules_path", cfg.Search.RulesPath),
		zap.Any("rules", engine.Rules().Stats()),
		zap.Bool("edit_distance", cfg.Search.EditDistanceEnabled()),
	)

	corpusRepo := corpus.New(pool, map[candidate.Kind]corpus.Table{
		candidate.Post:    buildTable(cfg.Database.Posts, cfg.Search.PostFields, candidate.DefaultPostFields()),
		candidate.Product: buildTable(cfg.Database.Products, cfg.Search.ProductFields, candidate.DefaultProductFields()),
	}, cfg.Database.RowLimit)

	searchSvc := searchuc.New(corpusRepo, engine, searchuc.Links{
		BaseURL:       cfg.Search.BaseURL,
		PostPrefix:    cfg.Search.PostPrefix,
		ProductPrefix: cfg.Search.ProductPrefix,
	})

	// Response cache decorator. Pass a nil interface (not a typed nil pointer)
	// to health when the cache is off.
	var searcher chiTransport.Searcher = searchSvc
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, readyTimeout); err != nil {
			logger.Warn("Cache not ready, continuing without warm connection", zap.Error(err))
		}
		searcher = searchcache.New(searchSvc, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.SearchCacheTotal, logger)
		cachePinger = store
	}

	var suggester topicsuc.Suggester
	if cfg.LLM.APIKey != "" {
		suggester = openaiSuggester.NewSuggester(&openaiSuggester.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Provider:    cfg.LLM.Provider,
			Temperature: cfg.LLM.Temperature,
			Logger:      logger,
		})
		logger.Info("Topic suggester enabled", zap.String("model", cfg.LLM.Model))
	}

	topicsSvc := topicsuc.New(corpusRepo, engine, suggester)
	healthSvc := healthuc.New(pool, cachePinger)

	var limiter *chiTransport.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter, err = chiTransport.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Clients)
		if err != nil {
			logger.Fatal("Failed to create rate limiter", zap.Error(err))
		}
	}

	server := chiTransport.NewServer(searcher, topicsSvc, healthSvc, logger).
		WithLimits(cfg.Search.DefaultLimit, cfg.Search.PageLimit)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:    cfg.Auth.APIKeys,
		OpenTopics: cfg.Auth.Disabled,
		Limiter:    limiter,
		TrustProxy: cfg.HTTP.TrustProxy,
		Logger:     logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEngine assembles the matcher: rules -> suffix expander -> LRU cache -> engine.
func buildEngine(cfg config.SearchConfig) (*textmatch.Engine, error) {
	rules := textmatch.DefaultRules()
	if cfg.RulesPath != "" {
		loaded, err := textmatch.LoadRules(cfg.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		rules = loaded
	}

	expander, err := textmatch.NewCachedExpander(textmatch.NewSuffixExpander(rules), cfg.ExpanderCacheSize)
	if err != nil {
		return nil, fmt.Errorf("expander cache: %w", err)
	}

	return textmatch.NewEngine(rules,
		textmatch.WithExpander(expander),
		textmatch.WithEditDistance(cfg.EditDistanceEnabled()),
	), nil
}

// buildTable maps a table config onto the corpus repository, keeping the
// default column names for attributes the config leaves empty.
func buildTable(t config.TableConfig, f config.FieldsConfig, defaults candidate.FieldSet) corpus.Table {
	fields := defaults
	if len(f.ID) > 0 {
		fields.ID = f.ID
	}
	if len(f.Title) > 0 {
		fields.Title = f.Title
	}
	if len(f.Slug) > 0 {
		fields.Slug = f.Slug
	}
	if len(f.Excerpt) > 0 {
		fields.Excerpt = f.Excerpt
	}
	if len(f.Body) > 0 {
		fields.Body = f.Body
	}
	return corpus.Table{
		Name:    t.Name,
		OrderBy: t.OrderBy,
		Where:   t.Where,
		Fields:  fields,
	}
}
