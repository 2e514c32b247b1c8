package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	goldex "go-gold-exchange"
	"go-gold-exchange/config"
	"go-gold-exchange/exchange"
	"go-gold-exchange/gold"
	"go-gold-exchange/http"
	"go-gold-exchange/ratesapi"
	"go-gold-exchange/refresh"
	"go-gold-exchange/store"

	nhttp "net/http"
)

func main() {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	cfg, err := config.Load(logger)
	if err != nil {
		level.Error(logger).Log("msg", "failed to load config", "err", err)
		os.Exit(1)
	}
	logger = level.NewFilter(logger, cfg.LevelOption())

	ratesService := ratesapi.NewService(cfg.RatesURL, cfg.FetchTimeout)
	ratesService = ratesapi.NewLoggingService(log.With(logger, "component", "rates_rest"), ratesService)
	ratesService = ratesapi.NewCachingService(cfg.RatesCacheTTL, log.With(logger, "component", "rates_cache"), ratesService)

	var goldProvider gold.Provider
	if cfg.GoldFeedURL != "" {
		goldProvider = gold.NewFeed(cfg.GoldFeedURL, cfg.FetchTimeout)
	} else {
		goldProvider = gold.NewStatic(goldex.Amount(cfg.GoldMockPrice))
	}
	goldProvider = gold.NewLoggingProvider(log.With(logger, "component", "gold"), goldProvider)

	rateStore := store.New()
	coordinator := refresh.New(ratesService, goldProvider, rateStore, cfg.FetchTimeout, log.With(logger, "component", "refresh"))

	exchangeService := exchange.NewService(rateStore, cfg.MissingRatePolicy)
	exchangeService = exchange.NewLoggingService(log.With(logger, "component", "exchange"), exchangeService)

	var refreshLimiter *limiter.Limiter
	if cfg.RefreshRateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(cfg.RefreshRateLimit)
		if err != nil {
			level.Error(logger).Log("msg", "invalid REFRESH_RATE_LIMIT", "value", cfg.RefreshRateLimit, "err", err)
			os.Exit(1)
		}
		refreshLimiter = limiter.New(memory.NewStore(), rate)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go coordinator.Run(ctx, cfg.RefreshInterval)

	handler := http.NewServer(exchangeService, rateStore, coordinator, refreshLimiter, log.With(logger, "component", "http"))
	server := &nhttp.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		level.Info(logger).Log("msg", "server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
			level.Error(logger).Log("msg", "listen and serve", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	level.Info(logger).Log("msg", "shutdown signal received, stopping server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "http server shutdown", "err", err)
	}
}
