// main.go
//
// Apartment maintenance tracker API
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of apartment-maintenance-tracker.
// apartment-maintenance-tracker is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// apartment-maintenance-tracker is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with apartment-maintenance-tracker.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/auth"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/config"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/database"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/handlers"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/mail"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/notify"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/realtime"
	"github.com/justinglotz/apartment-maintenance-tracker/internal/utils"
	"go.uber.org/zap"

	_ "github.com/justinglotz/apartment-maintenance-tracker/docs/api" // Swagger docs
)

// @title Apartment Maintenance Tracker API
// @version 1.0.0
// @description Issue lifecycle, tenant confirmation and notification service

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		zapLogger.Fatal("Failed to create token manager", zap.Error(err))
	}

	var mailer notify.Mailer
	if cfg.MailEnabled() {
		mailer = mail.NewSMTPMailer(cfg)
		if err := utils.PingSMTP(cfg.SMTPHost, cfg.SMTPPort); err != nil {
			zapLogger.Warn("SMTP server unreachable at startup", zap.String("host", cfg.SMTPHost), zap.Error(err))
		}
	} else {
		zapLogger.Info("SMTP_HOST not set, email notifications disabled")
	}

	hub := realtime.NewHub()
	dispatcher := notify.New(db, mailer, hub, cfg.ClientURL, zapLogger.Named("notify"))

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.ClientURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("apartment_tracker")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(app, handlers.Deps{
		Config:   cfg,
		DB:       db,
		Tokens:   tokens,
		Notifier: dispatcher,
	})

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	live := &http.Server{
		Addr: ":" + cfg.RealtimePort,
		Handler: (&realtime.Server{
			Hub:            hub,
			DB:             db,
			Tokens:         tokens,
			OriginPatterns: cfg.WSOriginPatterns,
			Logger:         zapLogger.Named("realtime"),
		}).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zapLogger.Info("Starting realtime listener", zap.String("port", cfg.RealtimePort))
		if err := live.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Realtime listener failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		zapLogger.Info("Gracefully shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := live.Shutdown(ctx); err != nil {
			zapLogger.Warn("Realtime listener shutdown", zap.Error(err))
		}
		_ = app.ShutdownWithContext(ctx)
	}()

	// Start server
	zapLogger.Info("Starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}

	// Let in-flight email deliveries finish
	dispatcher.Wait()
	zapLogger.Info("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
