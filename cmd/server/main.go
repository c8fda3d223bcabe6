package main

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mlagdao/benguetstays/internal/booking"
	"github.com/mlagdao/benguetstays/internal/config"
	"github.com/mlagdao/benguetstays/internal/database"
	"github.com/mlagdao/benguetstays/internal/handler"
	"github.com/mlagdao/benguetstays/internal/middleware"
	"github.com/mlagdao/benguetstays/internal/queue"
	"github.com/mlagdao/benguetstays/internal/repository"
	"github.com/mlagdao/benguetstays/internal/router"
)

// requestValidator plugs go-playground/validator into Echo so handlers
// can call c.Validate on their bound DTOs.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	propertyRepo := repository.NewPropertyRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	engine := booking.NewService(propertyRepo, bookingRepo,
		booking.WithUnpaidConfirm(cfg.AllowUnpaidConfirm))

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	publicHandler := handler.NewPublicHandler(propertyRepo, engine)
	tenantHandler := handler.NewTenantHandler(engine, bookingRepo)
	ownerHandler := handler.NewOwnerHandler(propertyRepo, bookingRepo, engine)

	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Redis backs both the rate limiter and the public response cache.
	// When it is unreachable both middlewares run as pass-throughs.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, config.LoadCacheConfig(), rdb)
	router.RegisterTenant(e, tenantHandler, cfg.JWTSecret)
	router.RegisterOwner(e, ownerHandler, cfg.JWTSecret)

	// Consume payment-verified events in the background; the consumer
	// reconnects on broker failures and never takes the API down.
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
