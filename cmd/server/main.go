package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/nebeng/nebeng-api/internal/config"     // Internal config loader
	"github.com/nebeng/nebeng-api/internal/database"   // MySQL connection pool
	"github.com/nebeng/nebeng-api/internal/handler"    // HTTP handlers
	"github.com/nebeng/nebeng-api/internal/inventory"  // seat-inventory engine
	"github.com/nebeng/nebeng-api/internal/middleware" // rate limiting and response cache
	"github.com/nebeng/nebeng-api/internal/queue"      // background booking consumer
	"github.com/nebeng/nebeng-api/internal/repository" // DB repositories
	"github.com/nebeng/nebeng-api/internal/router"     // Internal router setup
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// The SQL store backs the inventory engine; every seat mutation runs
	// through it as one transaction.
	store := repository.NewSQLStore(db)
	engine := inventory.NewEngine(store)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	masses := repository.NewMassRepo(db)
	environments := repository.NewEnvironmentRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	massHandler := handler.NewMassHandler(masses)
	envHandler := handler.NewEnvironmentHandler(environments)
	rideHandler := handler.NewRideHandler(engine, store.Rides(), masses)
	bookingHandler := handler.NewBookingHandler(engine, masses)

	e := echo.New()

	// Redis-backed rate limiting and response caching; both degrade to
	// no-ops when Redis is unreachable.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, massHandler, envHandler, rideHandler)
	router.RegisterProtected(e, rideHandler, bookingHandler, massHandler, envHandler, cfg.JWTSecret)

	// Consume booking events in the background; the consumer reconnects on
	// broker failures and never stops the server.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
