package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/splitora/client/internal/authstate"
	"github.com/splitora/client/internal/eventbus"
	"github.com/splitora/client/internal/httpclient"
	"github.com/splitora/client/internal/rate"
	"github.com/splitora/client/internal/session"
	"github.com/splitora/client/internal/splitora"
	"github.com/splitora/client/pkg/config"
	"github.com/splitora/client/pkg/logger"
)

// app holds the wired components shared by every command.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  session.Store
	redis  *session.RedisStore
	bus    *eventbus.EventBus
	state  *authstate.State
	client *httpclient.Client
	api    *splitora.Client
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	log := logger.L()

	a := &app{cfg: cfg, logger: log, bus: eventbus.New()}

	switch cfg.SessionBackend {
	case config.SessionBackendMemory:
		a.store = session.NewMemoryStore()
	case config.SessionBackendRedis:
		rs, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, cfg.RedisNamespace, cfg.SessionTTL, logger.Named("session"))
		if err != nil {
			return nil, fmt.Errorf("open redis session store: %w", err)
		}
		a.store, a.redis = rs, rs
	default:
		a.store = session.NewFileStore(cfg.SessionFile, logger.Named("session"))
	}

	a.state = authstate.New(ctx, logger.Named("authstate"), a.store, a.bus)

	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	})
	a.client = httpclient.New(logger.Named("session_client"), cfg.APIBaseURL, a.store, a.state,
		httpclient.WithTimeout(cfg.RequestTimeout),
		httpclient.WithRateLimiter(rateMgr),
		httpclient.WithEventBus(a.bus),
	)
	a.api = splitora.New(logger.Named("splitora"), a.client, splitora.WithProfileCache(cfg.ProfileCacheTTL))

	log.Debug("app.wired",
		zap.String("base_url", cfg.APIBaseURL),
		zap.String("session_backend", cfg.SessionBackend))
	return a, nil
}

func (a *app) Close() {
	a.bus.Wait()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("store.close_failed", zap.Error(err))
		}
	}
}
