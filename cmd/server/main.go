package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kommerce/shop/internal/config"
	"github.com/kommerce/shop/internal/db"
	"github.com/kommerce/shop/internal/es"
	"github.com/kommerce/shop/internal/httpserver"
	"github.com/kommerce/shop/internal/logging"
	authmw "github.com/kommerce/shop/internal/middleware/auth"
	loggingmw "github.com/kommerce/shop/internal/middleware/logging"
	"github.com/kommerce/shop/internal/mykafka"
	"github.com/kommerce/shop/internal/payment"
	"github.com/kommerce/shop/internal/repo"
	"github.com/kommerce/shop/internal/service"
	"github.com/kommerce/shop/internal/service/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")
	config.MustNonEmpty(cfg.PaystackSecretKey, "PAYSTACK_SECRET_KEY")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	store := repo.New(gdb)

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events disabled")
	}

	var indexer *search.Indexer
	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = search.NewIndexer(esClient, "products")
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	paystack := payment.NewClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.PaymentCurrency, cfg.ClientURL)

	var events service.EventPublisher
	if producer != nil {
		events = producer
	}

	authSvc := &service.AuthService{Repo: store, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret, Events: events}
	catalogSvc := &service.CatalogService{Repo: store, Search: indexer, Events: events}
	cartSvc := &service.CartService{Repo: store, Events: events}
	orderSvc := &service.OrderService{Repo: store, Payment: paystack, Events: events}

	tokenSvc := &authmw.TokenService{Repo: store, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHandler{Svc: authSvc},
		ProductHandler: &httpserver.ProductHandler{Svc: catalogSvc, Search: indexer},
		CartHandler:    &httpserver.CartHandler{Svc: cartSvc},
		OrderHandler:   &httpserver.OrderHandler{Svc: orderSvc, WebhookSecret: cfg.PaystackSecretKey},
		TokenService:   tokenSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
