package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/selivandex/sentiment-pulse/internal/adapters/ai"
	"github.com/selivandex/sentiment-pulse/internal/adapters/config"
	redisAdapter "github.com/selivandex/sentiment-pulse/internal/adapters/redis"
	"github.com/selivandex/sentiment-pulse/internal/adapters/sources"
	"github.com/selivandex/sentiment-pulse/internal/adapters/telegram"
	"github.com/selivandex/sentiment-pulse/internal/api"
	"github.com/selivandex/sentiment-pulse/internal/cache"
	"github.com/selivandex/sentiment-pulse/internal/dashboard"
	"github.com/selivandex/sentiment-pulse/internal/fixtures"
	"github.com/selivandex/sentiment-pulse/internal/insight"
	"github.com/selivandex/sentiment-pulse/internal/metrics"
	"github.com/selivandex/sentiment-pulse/internal/workers"
	"github.com/selivandex/sentiment-pulse/pkg/clock"
	"github.com/selivandex/sentiment-pulse/pkg/logger"
	"github.com/selivandex/sentiment-pulse/pkg/models"
	"github.com/selivandex/sentiment-pulse/pkg/worker"
)

type options struct {
	demo      bool
	demoSeed  uint64
	print     string
	coin      string
	refresh   bool
	envFile   string
	workerTTL time.Duration
}

func main() {
	opts := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options

	flag.BoolVar(&opts.demo, "demo", false, "serve generated messages instead of DATA_FILE")
	flag.Uint64Var(&opts.demoSeed, "seed", 42, "seed for the demo message generator")
	flag.StringVar(&opts.print, "print", "", "print one report as JSON and exit: data|coins|analyze|insight|trending|urgent|agent")
	flag.StringVar(&opts.coin, "coin", "", "coin filter for data, analyze, insight and urgent")
	flag.BoolVar(&opts.refresh, "refresh", false, "bypass the result cache")
	flag.StringVar(&opts.envFile, "env", ".env", "dotenv file loaded before the environment is read")
	flag.DurationVar(&opts.workerTTL, "stop-timeout", 10*time.Second, "how long to wait for workers on shutdown")
	flag.Parse()

	return opts
}

func run(ctx context.Context, opts options) error {
	cfg, err := initConfig(opts.envFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	metrics.Init()

	clk := clock.System{}

	var redisClient *redisAdapter.Client
	if cfg.UsesRedis() {
		redisClient, err = redisAdapter.New(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
	}

	// pushed messages are only accepted while serving
	var inbox *sources.StaticSource
	if opts.print == "" {
		inbox = sources.NewStaticSource()
	}

	source, err := initSource(cfg, opts, clk, inbox)
	if err != nil {
		return err
	}

	insights, err := initInsights(ctx, cfg, clk)
	if err != nil {
		return err
	}

	svc, err := dashboard.NewService(dashboard.Deps{
		Source:        source,
		DefaultSource: models.ParseSource(cfg.Data.DefaultSource),
		Results:       initResultCache(cfg, redisClient, clk),
		Insights:      insights,
		Clock:         clk,
	})
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}

	if opts.print != "" {
		return printReport(ctx, os.Stdout, svc, insights, opts)
	}

	return serve(ctx, cfg, opts, svc, insights, redisClient, inbox)
}

// initConfig loads .env when present, then configuration, then the logger
func initConfig(envFile string) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

// initSource combines the data files, the demo generator and the inbox of
// pushed messages; at least one must be configured
func initSource(cfg *config.Config, opts options, clk clock.Clock, inbox *sources.StaticSource) (dashboard.Source, error) {
	var loaders []sources.Loader

	if cfg.Data.File != "" {
		loaders = append(loaders, sources.NewFileSource(cfg.Data.File))
		logger.Info("reading messages from file", zap.String("path", cfg.Data.File))
	}

	if cfg.Data.TelegramUpdatesFile != "" {
		loaders = append(loaders, telegram.NewUpdateSource(cfg.Data.TelegramUpdatesFile))
		logger.Info("reading telegram updates from file", zap.String("path", cfg.Data.TelegramUpdatesFile))
	}

	if opts.demo {
		builder := fixtures.NewBuilder(opts.demoSeed, clk)
		loaders = append(loaders, fixtures.NewSource(builder, cfg.Warmer.Coins, 50, 100))
		logger.Info("demo message generator enabled",
			zap.Uint64("seed", opts.demoSeed),
			zap.Strings("coins", cfg.Warmer.Coins),
		)
	}

	if inbox != nil {
		loaders = append(loaders, inbox)
	}

	switch len(loaders) {
	case 0:
		return nil, fmt.Errorf("no message source: set DATA_FILE or TELEGRAM_UPDATES_FILE, or pass -demo")
	case 1:
		return loaders[0], nil
	default:
		return sources.NewMultiSource(loaders...), nil
	}
}

// initResultCache picks the store and locker for aggregated results
func initResultCache(cfg *config.Config, redisClient *redisAdapter.Client, clk clock.Clock) *cache.Cache[*models.AggregatedResult] {
	opts := cache.Options[*models.AggregatedResult]{
		Name:  "results",
		TTL:   cfg.Cache.TTL,
		Clock: clk,
	}

	if redisClient != nil {
		if cfg.Cache.Backend == "redis" {
			opts.Store = redisAdapter.NewResultStore[*models.AggregatedResult](redisClient.Cache(), "sentiment:results:")
		}
		if locker := redisClient.Locker(); locker != nil {
			opts.Locker = locker
		}
	}

	logger.Info("result cache configured",
		zap.String("backend", cfg.Cache.Backend),
		zap.Duration("ttl", cfg.Cache.TTL),
		zap.Bool("distributed_lock", cfg.Redis.Locking),
	)

	return cache.New(opts)
}

// initInsights wires the Gemini summarizer when an API key is configured
func initInsights(ctx context.Context, cfg *config.Config, clk clock.Clock) (*insight.Service, error) {
	if !cfg.Insight.InsightEnabled() {
		logger.Warn("GEMINI_API_KEY not set, AI insights unavailable")
		return insight.NewService(nil, cfg.Insight.CacheDuration, clk), nil
	}

	summarizer, err := ai.NewGeminiSummarizer(ctx, cfg.Insight.GeminiAPIKey, cfg.Insight.GeminiModel, cfg.Insight.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gemini summarizer: %w", err)
	}

	svc := insight.NewService(summarizer, cfg.Insight.CacheDuration, clk)
	svc.UseBreaker(insight.NewCircuitBreaker(cfg.Insight.MaxFailures, cfg.Insight.Cooldown, clk))
	return svc, nil
}

// serve runs the API server and the cache warmer until ctx is cancelled
func serve(
	ctx context.Context,
	cfg *config.Config,
	opts options,
	svc *dashboard.Service,
	insights *insight.Service,
	redisClient *redisAdapter.Client,
	inbox *sources.StaticSource,
) error {
	checks := map[string]api.HealthCheck{}
	if redisClient != nil {
		checks["redis"] = redisClient.Health
	}

	server := api.NewServer(cfg.Server.Addr, svc, insights, checks, clock.System{})
	server.Ingest(inbox)

	group := worker.NewWorkerGroup(ctx, metrics.RecordWorkerExecution)
	if cfg.Warmer.Enabled {
		group.Add(workers.NewCacheWarmer(svc, cfg.Warmer.Coins), cfg.Warmer.Interval)
		logger.Info("cache warmer scheduled",
			zap.Duration("interval", cfg.Warmer.Interval),
			zap.Strings("coins", cfg.Warmer.Coins),
		)
	}
	if err := addTelegramWorkers(group, cfg, svc); err != nil {
		logger.Warn("telegram alerts disabled", zap.Error(err))
	}
	group.Start()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()
	server.SetReady(true)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("api server failed: %w", err)
		}
	}

	server.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop api server", zap.Error(err))
	}

	group.Stop(opts.workerTTL)

	logger.Info("shutdown complete")
	return runErr
}

// addTelegramWorkers schedules urgent alerts and the market summary when a
// bot token and chat are configured
func addTelegramWorkers(group *worker.WorkerGroup, cfg *config.Config, svc *dashboard.Service) error {
	if !cfg.Telegram.Enabled() {
		return nil
	}

	notifier, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return err
	}

	group.Add(workers.NewUrgentAlerter(svc, notifier), cfg.Telegram.AlertInterval)
	group.Add(workers.NewMarketSummary(svc, notifier), cfg.Telegram.SummaryInterval)

	logger.Info("telegram alerts scheduled",
		zap.Duration("alert_interval", cfg.Telegram.AlertInterval),
		zap.Duration("summary_interval", cfg.Telegram.SummaryInterval),
	)
	return nil
}

// printReport writes one dashboard report as indented JSON
func printReport(ctx context.Context, out io.Writer, svc *dashboard.Service, insights *insight.Service, opts options) error {
	var (
		report any
		err    error
	)

	switch opts.print {
	case "data":
		report, err = svc.GetData(ctx, opts.coin, opts.refresh)
	case "coins":
		report = svc.Coins(ctx)
	case "analyze":
		report, err = svc.AnalyzeCoin(ctx, opts.coin)
	case "insight":
		var summary *models.CoinSummary
		summary, err = svc.AnalyzeCoin(ctx, opts.coin)
		if err == nil {
			report = api.CoinInsightResponse{
				Analysis: summary,
				Insight:  insights.Generate(ctx, summary.Coin, summary),
			}
		}
	case "trending":
		report, err = svc.Trending(ctx)
	case "urgent":
		report, err = svc.Urgent(ctx, opts.coin)
	case "agent":
		report, err = svc.AgentData(ctx)
	default:
		return fmt.Errorf("unknown report %q", opts.print)
	}
	if err != nil {
		return fmt.Errorf("failed to build %s report: %w", opts.print, err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
