package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/pkg/distlock"
	"github.com/leadforge/leadforge/internal/repository/postgres"
	"github.com/leadforge/leadforge/internal/scraperapi"
	"github.com/leadforge/leadforge/internal/service/credits"
	"github.com/leadforge/leadforge/internal/service/scrape"
	"github.com/leadforge/leadforge/internal/worker"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("Starting LeadForge worker...")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

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

	jobRepo := postgres.NewScrapeJobRepo(db)
	leadRepo := postgres.NewLeadRepo(db)
	creditsSvc := credits.NewService(postgres.NewCreditRepo(db))
	engine := scraperapi.NewClient(cfg.Scraper)

	scrapeSvc := scrape.NewService(jobRepo, engine, leadRepo, creditsSvc,
		cfg.Credits.CostPerLead, cfg.Worker.MaxJobDuration())

	// Without Redis the poller runs unlocked; fine for a single instance.
	var lock *distlock.Lock
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		lock = distlock.New(redisClient, "scrape-poller", cfg.Worker.LockTTL())
		log.Println("Redis poller lock enabled")
	} else {
		log.Println("WARNING: Redis disabled, poller runs without a distributed lock")
	}

	poller := worker.NewJobPoller(scrapeSvc, lock, cfg.Worker.PollInterval())

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Run(ctx)
	log.Printf("Job poller running (interval: %s)", cfg.Worker.PollInterval())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down worker...")
	cancel()
	time.Sleep(time.Second)
	log.Println("Worker stopped")
}
