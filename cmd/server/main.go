package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/credential"
	"github.com/iliyamo/flight-reservation/internal/database"
	"github.com/iliyamo/flight-reservation/internal/handler"
	"github.com/iliyamo/flight-reservation/internal/middleware"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/queue"
	"github.com/iliyamo/flight-reservation/internal/repository"
	"github.com/iliyamo/flight-reservation/internal/router"
	queue_publisher "github.com/iliyamo/flight-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	deps := booking.Deps{
		DB:           db,
		Users:        repository.NewUserRepo(db),
		Flights:      repository.NewFlightRepo(db),
		Reservations: repository.NewReservationRepo(db),
		Verifier:     credential.NewPBKDF2(cfg.HashIterations),
		OnBooked: func(ctx context.Context, rid int64, username string, it model.Itinerary) {
			ev := queue.ReservationBookedEvent{
				ReservationID: rid,
				Username:      username,
				Day:           it.Day(),
				FlightIDs:     []int64{it.First.FID},
				TotalPrice:    it.Price(),
				BookedAt:      time.Now().UTC().Format(time.RFC3339),
			}
			if it.Second != nil {
				ev.FlightIDs = append(ev.FlightIDs, it.Second.FID)
			}
			// Best effort: booking already committed, the event is telemetry.
			_ = queue_publisher.PublishReservationBooked(ctx, ev)
		},
	}
	reg := booking.NewRegistry(deps)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	go func() {
		if err := queue.StartBookedConsumer(); err != nil {
			log.Printf("booked-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	a := handler.NewAuthHandler(cfg, reg)
	b := handler.NewBookingHandler()
	router.RegisterRoutes(e, a)
	router.RegisterSession(e, a, b, cfg.JWTSecret, reg, limiter)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
