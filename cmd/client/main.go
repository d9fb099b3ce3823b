package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/auramoney/gameclient/internal/common/clock"
	"github.com/auramoney/gameclient/internal/common/uuid"
	"github.com/auramoney/gameclient/internal/dice"
	"github.com/auramoney/gameclient/internal/events"
	"github.com/auramoney/gameclient/internal/gateway"
	"github.com/auramoney/gameclient/internal/handlers/console"
	"github.com/auramoney/gameclient/internal/identity"
	profileRepo "github.com/auramoney/gameclient/internal/repositories/profile"
	snapshotRepo "github.com/auramoney/gameclient/internal/repositories/snapshot"
	stateService "github.com/auramoney/gameclient/internal/services/state"
	turnService "github.com/auramoney/gameclient/internal/services/turn"
)

type config struct {
	ServerURL string `env:"SERVER_URL" envDefault:"http://localhost:3000/api"`
	RoomID    string `env:"ROOM_ID"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	UserID   string `env:"USER_ID"`
	Username string `env:"USERNAME"`

	DemoMode     bool          `env:"DEMO_MODE"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
}

func main() {
	// A missing .env file is fine; the environment still applies.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg, err := env.ParseAs[config]()
	if err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}
	if cfg.RoomID == "" {
		log.Fatal("ROOM_ID environment variable is required")
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	snapshots, err := snapshotRepo.NewRedis(&snapshotRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create snapshot repository: %v", err)
	}

	profiles, err := profileRepo.NewRedis(&profileRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create profile repository: %v", err)
	}

	// Initialize the server gateway
	server, err := gateway.NewHTTP(&gateway.Config{
		BaseURL: cfg.ServerURL,
	})
	if err != nil {
		log.Fatalf("Failed to create server gateway: %v", err)
	}

	systemClock := &clock.DefaultClock{}

	// Resolve the local identity: environment first, stored profile
	// next, generated guest last.
	var bundle *identity.SessionBundle
	if cfg.Username != "" {
		bundle = &identity.SessionBundle{
			CurrentUser: &identity.Identity{
				ID:       cfg.UserID,
				UserID:   cfg.UserID,
				Username: cfg.Username,
			},
		}
	}

	resolver, err := identity.NewResolver(&identity.Config{
		Bundle:        bundle,
		ProfileRepo:   profiles,
		Clock:         systemClock,
		UUIDGenerator: uuid.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create identity resolver: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	me, err := resolver.Resolve(ctx)
	if err != nil {
		log.Fatalf("Failed to resolve identity: %v", err)
	}

	// Initialize the state store
	bus := events.NewBus()

	stateStore, err := stateService.New(ctx, &stateService.Config{
		Gateway:      server,
		SnapshotRepo: snapshots,
		Bus:          bus,
		Clock:        systemClock,
		RoomID:       cfg.RoomID,
	})
	if err != nil {
		log.Fatalf("Failed to create state store: %v", err)
	}
	defer stateStore.Destroy()

	// Initialize the turn coordinator
	coordinator, err := turnService.New(&turnService.Config{
		StateStore: stateStore,
		Gateway:    server,
		Bus:        bus,
		Clock:      systemClock,
		Roller:     dice.New(&dice.Config{}),
		Identity:   me,
		DemoMode:   cfg.DemoMode,
	})
	if err != nil {
		log.Fatalf("Failed to create turn coordinator: %v", err)
	}

	// Background poll keeps the session in sync; the store's
	// freshness window and backoff decide when a poll actually goes
	// out.
	go func() {
		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := stateStore.FetchGameState(ctx, nil); err != nil {
					log.Printf("Poll failed: %v", err)
				}
			}
		}
	}()

	// Cancel the command loop on SIGINT/SIGTERM.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	go func() {
		<-sc
		cancel()
	}()

	handler, err := console.New(&console.Config{
		StateStore:  stateStore,
		Coordinator: coordinator,
		Bus:         bus,
		Identity:    me,
		In:          os.Stdin,
		Out:         os.Stdout,
	})
	if err != nil {
		log.Fatalf("Failed to create console handler: %v", err)
	}

	if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Console handler failed: %v", err)
	}

	log.Println("Client has been shut down")
}
