package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadforge/leadforge/internal/api"
	"github.com/leadforge/leadforge/internal/auth"
	"github.com/leadforge/leadforge/internal/campaign"
	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/instantly"
	"github.com/leadforge/leadforge/internal/mailer"
	"github.com/leadforge/leadforge/internal/plusvibe"
	"github.com/leadforge/leadforge/internal/repository/postgres"
	"github.com/leadforge/leadforge/internal/scraperapi"
	"github.com/leadforge/leadforge/internal/service/credits"
	"github.com/leadforge/leadforge/internal/service/invites"
	"github.com/leadforge/leadforge/internal/service/leads"
	"github.com/leadforge/leadforge/internal/service/scrape"
	"github.com/leadforge/leadforge/internal/service/users"
	"github.com/leadforge/leadforge/internal/smartlead"
	"github.com/leadforge/leadforge/internal/storage"
	"github.com/leadforge/leadforge/internal/verify"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	log.Println("Starting LeadForge API server...")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Redis is only needed for the worker lock and the health check.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	creditRepo := postgres.NewCreditRepo(db)
	inviteRepo := postgres.NewInviteRepo(db)
	jobRepo := postgres.NewScrapeJobRepo(db)
	leadRepo := postgres.NewLeadRepo(db)

	// Services
	creditsSvc := credits.NewService(creditRepo)
	usersSvc := users.NewService(userRepo, creditsSvc, cfg.Credits.SignupGrant)

	var inviteSender invites.Sender
	if cfg.Mailer.Enabled {
		m, err := mailer.New(context.Background(), cfg.Mailer, cfg.Server.BaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize mailer: %v", err)
		}
		inviteSender = m
		usersSvc.SetNotifier(m)
		log.Printf("Mailer enabled (from: %s)", cfg.Mailer.FromEmail)
	}

	invitesSvc := invites.NewService(inviteRepo, usersSvc, creditsSvc, inviteSender,
		cfg.Invites.TTL(), cfg.Invites.DefaultGrant)

	engine := scraperapi.NewClient(cfg.Scraper)
	scrapeSvc := scrape.NewService(jobRepo, engine, leadRepo, creditsSvc,
		cfg.Credits.CostPerLead, cfg.Worker.MaxJobDuration())

	var checker leads.Checker
	if cfg.Verification.Enabled {
		checker = verify.NewService(verify.NewClient(cfg.Verification))
		log.Println("Email verification enabled")
	}

	var archiver leads.Archiver
	if cfg.Storage.Enabled {
		archive, err := storage.NewExportArchive(context.Background(), cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize export archive: %v", err)
		}
		archiver = archive
		log.Printf("Export archive enabled (bucket: %s)", cfg.Storage.S3Bucket)
	}
	leadsSvc := leads.NewService(leadRepo, checker, archiver)

	// Campaign platform pushers; only configured platforms are registered.
	var pushers []campaign.Pusher
	if cfg.Instantly.Enabled {
		pushers = append(pushers, &campaign.InstantlyPusher{Client: instantly.NewClient(cfg.Instantly)})
	}
	if cfg.Smartlead.Enabled {
		pushers = append(pushers, &campaign.SmartleadPusher{Client: smartlead.NewClient(cfg.Smartlead)})
	}
	if cfg.PlusVibe.Enabled {
		pushers = append(pushers, &campaign.PlusVibePusher{Client: plusvibe.NewClient(cfg.PlusVibe)})
	}
	var exporter *campaign.Exporter
	if len(pushers) > 0 {
		exporter = campaign.NewExporter(leadRepo, creditsSvc, cfg.Credits.ExportCostPer, pushers...)
		log.Printf("Campaign export enabled: %v", exporter.Platforms())
	}

	// Auth
	var authManager *auth.Manager
	if cfg.Auth.Enabled && cfg.Auth.GoogleClientID != "" {
		authManager = auth.NewManager(&cfg.Auth, usersSvc, cfg.Server.BaseURL)
		authManager.CleanupExpiredSessions()
		log.Printf("Google OAuth enabled (callback: %s/auth/callback)", cfg.Server.BaseURL)
	} else {
		log.Println("WARNING: auth is disabled, API routes are unprotected")
	}

	health := api.NewHealthChecker(db, redisClient, version())
	handlers := api.NewHandlers(usersSvc, invitesSvc, creditsSvc, scrapeSvc, leadsSvc, exporter, health)
	server := api.NewServer(cfg.Server, handlers, authManager)

	addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func version() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "dev"
}
