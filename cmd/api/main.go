package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/ELYASDARK/uhc-admin-api/internal/config"
	"github.com/ELYASDARK/uhc-admin-api/internal/handler"
	accountHandler "github.com/ELYASDARK/uhc-admin-api/internal/handler/account"
	promHandler "github.com/ELYASDARK/uhc-admin-api/internal/handler/prometheus"
	"github.com/ELYASDARK/uhc-admin-api/internal/identity"
	"github.com/ELYASDARK/uhc-admin-api/internal/identity/casdoor"
	"github.com/ELYASDARK/uhc-admin-api/internal/identity/memory"
	"github.com/ELYASDARK/uhc-admin-api/internal/middleware"
	"github.com/ELYASDARK/uhc-admin-api/internal/repository/mongodb"
	"github.com/ELYASDARK/uhc-admin-api/internal/router"
	accountService "github.com/ELYASDARK/uhc-admin-api/internal/service/account"
	"github.com/ELYASDARK/uhc-admin-api/pkg/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := mongodb.Connect(context.Background(), cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(context.Background())

	var identityStore identity.Store
	if cfg.Casdoor.Endpoint != "" {
		identityStore = casdoor.NewStore(casdoor.Config{
			Endpoint:     cfg.Casdoor.Endpoint,
			ClientID:     cfg.Casdoor.ClientID,
			ClientSecret: cfg.Casdoor.ClientSecret,
			Certificate:  cfg.Casdoor.Certificate,
			Organization: cfg.Casdoor.Organization,
			Application:  cfg.Casdoor.Application,
		})
	} else {
		log.Warn().Msg("no identity provider configured, using in-memory store")
		identityStore = memory.NewStore()
	}

	userRepo := mongodb.NewUserRepository(db)
	doctorRepo := mongodb.NewDoctorRepository(db)

	accountSvc := accountService.NewService(identityStore, userRepo, doctorRepo)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler(db)
	accountH := accountHandler.NewHandler(accountSvc)
	metricsH := promHandler.New()

	r := router.New(authMiddleware, accountH, metricsH, h, router.Config{
		RateLimit: rate.Limit(cfg.Server.RateLimit),
		RateBurst: cfg.Server.RateBurst,
		CORS:      middleware.DefaultCORSConfig(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
