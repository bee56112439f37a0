package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-manager/internal/config"
	"github.com/iliyamo/library-seat-manager/internal/database"
	"github.com/iliyamo/library-seat-manager/internal/handler"
	"github.com/iliyamo/library-seat-manager/internal/middleware"
	"github.com/iliyamo/library-seat-manager/internal/payment"
	"github.com/iliyamo/library-seat-manager/internal/queue"
	"github.com/iliyamo/library-seat-manager/internal/repository"
	"github.com/iliyamo/library-seat-manager/internal/router"
	"github.com/iliyamo/library-seat-manager/internal/validator"
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

	e := echo.New()
	e.Validator = validator.New()

	// Redis-backed rate limiting and response caching. Both degrade to
	// pass-through when Redis is unreachable or disabled.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	libraries := repository.NewLibraryRepo(db)
	shifts := repository.NewShiftRepo(db)
	students := repository.NewStudentRepo(db)
	payments := repository.NewPaymentRepo(db)

	gateway := payment.NewGateway(cfg.MidtransServerKey, cfg.MidtransProd)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	owner := handler.NewOwnerHandler(libraries, shifts, students, payments, gateway)
	public := handler.NewPublicHandler(libraries, shifts)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterOwner(e, owner, cfg.JWTSecret)
	router.RegisterPublic(e, public)

	// Settled payments are logged by a broker consumer so the audit
	// trail survives even when the HTTP process restarts.
	go func() {
		if err := queue.StartPaymentConsumer(); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
