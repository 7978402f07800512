package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/config"
	httpLayer "realty-calc/http"
	"realty-calc/repository"
	"realty-calc/service"
)

// app holds the wired services shared by serve and calc.
type app struct {
	engine       *calculator.Engine
	loans        *service.LoanService
	terms        *service.TermRecommendationService
	prequal      *service.PrequalService
	investment   *service.InvestmentService
	netSheets    *service.NetSheetService
	comparables  *service.ComparableService
	cma          *service.CMAService
	sellerReport *service.SellerReportService

	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{engine: calculator.New(cfg.EngineConfig())}

	cacheRepo, err := a.openCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	cache := service.NewResultCache(cacheRepo, cfg.CacheTTL(), logger.Named("cache"))

	compRepo, err := a.openComparables(cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	advisor := service.NewAIService(cfg.AdvisorSettings(), logger.Named("advisor"))
	if advisor.Enabled() {
		logger.Info("advisor enabled", zap.String("model", cfg.Advisor.Model))
	}

	a.loans = service.NewLoanService(a.engine, cache, logger.Named("loan"))
	a.terms = service.NewTermRecommendationService(a.engine, advisor, logger.Named("terms"))
	a.prequal = service.NewPrequalService(a.engine, cache, logger.Named("prequal"))
	a.investment = service.NewInvestmentService(a.engine, cache, advisor, logger.Named("investment"))
	a.netSheets = service.NewNetSheetService(a.engine, cache, logger.Named("netsheet"))
	a.comparables = service.NewComparableService(compRepo, logger.Named("comparables"))
	a.cma = service.NewCMAService(a.engine, cache, a.comparables, logger.Named("cma"))
	a.sellerReport = service.NewSellerReportService(a.cma, a.netSheets, logger.Named("seller_report"))
	return a, nil
}

func (a *app) openCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.CacheRepository, error) {
	switch cfg.Cache.Backend {
	case "redis":
		redisCache := repository.NewRedisCache(cfg.Cache.RedisAddr)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := redisCache.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable, results will not be cached until it recovers",
				zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		}
		a.closers = append(a.closers, redisCache.Close)
		return redisCache, nil
	case "memory":
		return repository.NewMemoryCache(), nil
	case "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func (a *app) openComparables(cfg *config.Config, logger *zap.Logger) (repository.ComparableRepository, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		repo, err := repository.OpenComparableRepositorySQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open comparables store: %w", err)
		}
		logger.Info("comparables stored in sqlite", zap.String("path", cfg.Storage.SQLitePath))
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	case "memory":
		return repository.NewComparableRepositoryMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func (a *app) handlers(logger *zap.Logger) httpLayer.Handlers {
	return httpLayer.Handlers{
		Loan:  httpLayer.NewLoanHandler(a.loans, logger),
		Terms: httpLayer.NewTermRecommendationHandler(a.terms, logger),
		Calculation: httpLayer.NewCalculationHandler(
			a.prequal, a.investment, a.netSheets, a.cma, a.sellerReport, logger,
		),
		Comparables: httpLayer.NewComparableHandler(a.comparables, logger),
	}
}

func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
