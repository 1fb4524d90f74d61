package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/share-ride/internal/config"
	"github.com/iliyamo/share-ride/internal/database"
	"github.com/iliyamo/share-ride/internal/handler"
	appmw "github.com/iliyamo/share-ride/internal/middleware"
	"github.com/iliyamo/share-ride/internal/queue"
	"github.com/iliyamo/share-ride/internal/repository"
	"github.com/iliyamo/share-ride/internal/router"
	"github.com/iliyamo/share-ride/internal/timewindow"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; cache and limiter become no-ops

	clock := timewindow.RealClock{}
	users := repository.NewUserRepo(db)
	rides := repository.NewRideRepo(db, clock)
	bookings := repository.NewBookingRepo(db, clock)
	admins := repository.NewAdminRepo(db, clock)

	authH := handler.NewAuthHandler(cfg, users)
	rideH := handler.NewRideHandler(users, rides, clock)
	bookH := handler.NewBookingHandler(users, bookings, clock)
	adminH := handler.NewAdminHandler(cfg, users, admins)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(appmw.RateLimit(rdb, 120, time.Minute))
	router.RegisterRoutes(e, authH, rideH, bookH, adminH, rdb, cfg.AdminSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
