package main // Entry point package

import (
	"log"  // Logging library
	"os"   // Environment access for optional vars
	"time" // Durations derived from config

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/taskvault/internal/auth"
	"github.com/iliyamo/taskvault/internal/config"
	"github.com/iliyamo/taskvault/internal/database"
	"github.com/iliyamo/taskvault/internal/email"
	"github.com/iliyamo/taskvault/internal/googleauth"
	"github.com/iliyamo/taskvault/internal/handler"
	"github.com/iliyamo/taskvault/internal/otp"
	"github.com/iliyamo/taskvault/internal/repository"
	"github.com/iliyamo/taskvault/internal/router"
	queue_publisher "github.com/iliyamo/taskvault/internal/service"
)

func main() {
	// Load a .env file when present; real deployments set the
	// environment directly and have no such file.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Repositories over the shared pool.
	users := repository.NewUserRepo(db)
	otps := repository.NewOTPRepo(db)
	profiles := repository.NewProfileRepo(db)
	todos := repository.NewTodoRepo(db)

	// Core collaborators, constructed once and read-only afterwards.
	mailer := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
	})
	engine := otp.NewEngine(otps, mailer, time.Duration(cfg.OTPTTLMin)*time.Minute)
	authSvc := &auth.Service{
		Users:      users,
		OTP:        engine,
		Google:     googleauth.NewGoogle(cfg.GoogleClientID),
		Secret:     cfg.JWTSecret,
		SessionTTL: time.Duration(cfg.SessionTTLHrs) * time.Hour,
		BcryptCost: cfg.BcryptCost,
	}
	events := queue_publisher.NewRabbit(os.Getenv("RABBITMQ_URL"))

	// Redis backs the credential-endpoint rate limiter; nil disables it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:    handler.NewAuthHandler(authSvc, events),
		Profile: handler.NewProfileHandler(users, profiles),
		User:    handler.NewUserHandler(users, profiles),
		Todo:    handler.NewTodoHandler(todos),
	}, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
