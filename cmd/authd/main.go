package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vianajose7/faaxis-auth/internal/audit"
	"github.com/vianajose7/faaxis-auth/internal/config"
	"github.com/vianajose7/faaxis-auth/internal/events"
	"github.com/vianajose7/faaxis-auth/internal/httpserver"
	"github.com/vianajose7/faaxis-auth/internal/logging"
	"github.com/vianajose7/faaxis-auth/internal/middleware"
	"github.com/vianajose7/faaxis-auth/internal/service"
	"github.com/vianajose7/faaxis-auth/internal/session"
	"github.com/vianajose7/faaxis-auth/internal/store"
	"github.com/vianajose7/faaxis-auth/internal/tokens"
)

func main() {
	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.LogLevel, "authd")

	issuer, err := tokens.NewIssuer(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(middleware.RequestLogger(logger))

	secondary := store.NewMemoryStore()
	var credStore store.CredentialStore = secondary
	if cfg.DatabaseURL != "" {
		initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := config.InitDB(initCtx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.Fatalf("db init error: %v", err)
		}
		credStore = store.NewFallbackStore(store.NewGormStore(db), secondary)
	} else {
		logger.Warn("DATABASE_URL not set, running on the in-memory store only")
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	indexer, err := audit.NewIndexer(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		logger.Warn("audit indexer disabled", "error", err)
	}

	legacy := session.NewStore(session.DefaultTTL)
	cookies := httpserver.CookieWriter{Secure: cfg.CookieSecure}

	svc := &service.AuthService{
		Store:  credStore,
		Issuer: issuer,
		Events: producer,
		Audit:  indexer,
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc:     svc,
			Legacy:  legacy,
			Cookies: cookies,
		},
		Resolver: middleware.NewResolver(issuer, legacy, cookies),
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
