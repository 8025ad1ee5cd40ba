package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/avikern/stand-planner/internal/config"
	"github.com/avikern/stand-planner/internal/database"
	"github.com/avikern/stand-planner/internal/handler"
	"github.com/avikern/stand-planner/internal/queue"
	"github.com/avikern/stand-planner/internal/repository"
	"github.com/avikern/stand-planner/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Nil when Redis is unreachable; caching and rate limiting then
	// degrade to no-ops.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// The consumer appends allocation.completed events to logs/allocation.log
	// and reconnects on broker failures for the lifetime of the process.
	go func() {
		if err := queue.StartAllocationConsumer(); err != nil {
			log.Printf("allocation consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	types := repository.NewAircraftTypeRepo(db)
	stands := repository.NewStandRepo(db)
	rules := repository.NewRuleRepo(db)
	settings := repository.NewSettingsRepo(db)
	flights := repository.NewFlightRepo(db)
	runs := repository.NewRunRepo(db)

	dataset := handler.NewDatasetHandler(cfg, types, stands, rules, settings)
	validate := handler.NewValidationHandler(cfg, types, stands)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users),
		Dataset:    dataset,
		Flights:    handler.NewFlightHandler(validate, flights),
		Validation: validate,
		Capacity:   handler.NewCapacityHandler(dataset),
		Allocation: handler.NewAllocationHandler(dataset, flights, runs),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, h, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
