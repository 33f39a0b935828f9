package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creator-platform/config"
	"creator-platform/database"
	contentapi "creator-platform/internal/api/content"
	eventsapi "creator-platform/internal/api/events"
	membersapi "creator-platform/internal/api/members"
	platformsapi "creator-platform/internal/api/platforms"
	stripewebhooks "creator-platform/internal/api/stripewebhook"
	tiersapi "creator-platform/internal/api/tiers"
	routes "creator-platform/internal/app/http"
	"creator-platform/internal/app/http/middleware"
	"creator-platform/internal/infra/auth"
	"creator-platform/internal/infra/cache"
	"creator-platform/internal/infra/logger"
	"creator-platform/internal/infra/notify"
	"creator-platform/internal/infra/stripe"
	"creator-platform/internal/service"
	"creator-platform/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("configuration", zap.Error(err))
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	st, err := openStore(cfg, log)
	if err != nil {
		return err
	}

	verifier, err := buildVerifier(ctx, cfg)
	if err != nil {
		return err
	}

	bus := notify.NewBus()
	opts := service.Options{
		Bus:        bus,
		Logger:     log.Named("service"),
		Retry:      cfg.RetryPolicy(),
		CacheTTL:   cfg.Cache.TTL,
		BaseDomain: cfg.App.BaseDomain,
	}
	if cfg.BillingEnabled() {
		opts.Prices = stripe.NewPriceClient(cfg.Stripe.SecretKey)
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		opts.Cache = cache.NewRedisCache(rdb, cfg.Cache.Prefix)
		relay := notify.NewRedisRelay(rdb, cfg.Redis.Channel, bus, log.Named("relay"))
		g.Go(func() error { return relay.Run(ctx) })
	}

	svc := service.New(st, opts)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlerLog := log.Named("api")
	routes.RegisterRoutes(r, routes.Handlers{
		Platforms: platformsapi.NewHandler(svc, handlerLog),
		Tiers:     tiersapi.NewHandler(svc, handlerLog),
		Members:   membersapi.NewHandler(svc, handlerLog),
		Content:   contentapi.NewHandler(svc, handlerLog),
		Events:    eventsapi.NewHandler(svc, bus, handlerLog, cfg.Events.Heartbeat),
		Stripe:    stripewebhooks.NewHandler(svc, cfg.Stripe.WebhookSecret, handlerLog),
	}, verifier)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func openStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using the in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	}
	db, err := database.Open(cfg.Database.URL, log)
	if err != nil {
		return nil, err
	}
	return store.NewGormStore(db), nil
}

// buildVerifier accepts HS256 tokens, provider ID tokens, or both.
func buildVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	var chain auth.Chain
	if cfg.Auth.JWTSecret != "" {
		chain = append(chain, auth.NewHMACVerifier(cfg.Auth.JWTSecret))
	}
	if cfg.Auth.OIDCIssuer != "" {
		v, err := auth.NewOIDCVerifier(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID)
		if err != nil {
			return nil, err
		}
		chain = append(chain, v)
	}
	return chain, nil
}
