package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/newsletter-optin/internal/api"
	"github.com/ignite/newsletter-optin/internal/cache"
	"github.com/ignite/newsletter-optin/internal/config"
	"github.com/ignite/newsletter-optin/internal/infomaniak"
	"github.com/ignite/newsletter-optin/internal/infomaniakv2"
	"github.com/ignite/newsletter-optin/internal/mailer"
	"github.com/ignite/newsletter-optin/internal/newsletter"
	"github.com/ignite/newsletter-optin/internal/repository/postgres"
	"github.com/ignite/newsletter-optin/internal/service/subscription"
)

// newProvider builds the newsletter backend selected by cfg.Variant.
func newProvider(cfg config.ProviderConfig) (newsletter.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Variant {
	case config.VariantLegacy:
		return infomaniak.NewClient(cfg), nil
	case config.VariantModern:
		return infomaniakv2.NewClient(cfg), nil
	default:
		return newsletter.NewMock(), nil
	}
}

// newNotifier picks the confirmation channel. The mock provider pairs with
// the log notifier so the whole flow runs without AWS credentials.
func newNotifier(ctx context.Context, cfg *config.Config) (subscription.Notifier, error) {
	if cfg.Provider.Variant == config.VariantMock || cfg.Email.Sender == "" {
		log.Println("confirmation emails will be logged, not sent")
		return mailer.LogNotifier{}, nil
	}
	return mailer.New(ctx, cfg.Email)
}

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	if cfg.Database.URL == "" {
		log.Fatal("database.url (or DATABASE_URL) is required")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatalf("Failed to ping database: %v", err)
	}
	cancel()
	log.Println("Connected to database")

	provider, err := newProvider(cfg.Provider)
	if err != nil {
		log.Fatalf("Failed to configure newsletter provider: %v", err)
	}
	log.Printf("Newsletter provider: %s", cfg.Provider.Variant)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		provider = cache.Wrap(provider, rdb, cfg.Redis.TTL())
		log.Printf("Mailing list options cached in Redis at %s (ttl %s)", cfg.Redis.Addr, cfg.Redis.TTL())
	}

	notifier, err := newNotifier(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}

	repo := postgres.NewSubscriptionRepo(db)
	svc := subscription.NewService(repo, provider, notifier, cfg.Confirm.PublicBaseURL)

	server := api.NewServer(cfg.Server, api.NewHandlers(svc, db))

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on http://%s", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
