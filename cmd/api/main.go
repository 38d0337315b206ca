package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/team-mid/arcms-api/internal/config"
	"github.com/team-mid/arcms-api/internal/database"
	"github.com/team-mid/arcms-api/internal/handler"
	"github.com/team-mid/arcms-api/internal/middleware"
	"github.com/team-mid/arcms-api/internal/models"
	"github.com/team-mid/arcms-api/internal/notification"
	"github.com/team-mid/arcms-api/internal/repository"
	"github.com/team-mid/arcms-api/internal/router"
	"github.com/team-mid/arcms-api/internal/service"
	"github.com/team-mid/arcms-api/internal/session"
	cloud "github.com/team-mid/arcms-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Employee{}, &models.Admin{}, &models.Log{}, &models.Image{}, &models.Contact{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	sessions := session.NewStore(redisClient, cfg.SessionTTL)

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	notifier, natsConn, err := buildNotifier(cfg, logger)
	if err != nil {
		log.Fatalf("failed to create mail backend: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	employeeRepo := repository.NewEmployeeRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	logRepo := repository.NewLogRepository(db)
	imageRepo := repository.NewImageRepository(db)
	contactRepo := repository.NewContactRepository(db)

	tokens := service.NewTokenIssuer()
	auditService := service.NewAuditService(logRepo, logger)
	accountService := service.NewAccountService(employeeRepo, adminRepo, contactRepo, auditService, notifier, tokens, service.AccountConfig{
		AllowedEmailDomains: cfg.AllowedEmailDomains,
		BcryptCost:          cfg.BcryptCost,
		DefaultImageID:      cfg.DefaultImageID,
		PublicBaseURL:       cfg.PublicBaseURL,
	}, logger)
	approvalService := service.NewApprovalService(employeeRepo, imageRepo, auditService, notifier, tokens, cfg.PublicBaseURL, logger)
	profileService := service.NewProfileService(employeeRepo, imageRepo, auditService, logger)
	directoryService := service.NewDirectoryService(employeeRepo, imageRepo, logger)
	uploadService := service.NewUploadService(uploader, imageRepo, cfg.UploadMaxMB, logger)

	authHandler := handler.NewAuthHandler(accountService, approvalService, sessions, logger)
	profileHandler := handler.NewProfileHandler(profileService, directoryService, sessions, logger)
	adminHandler := handler.NewAdminHandler(directoryService, approvalService, auditService, logger)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:    authHandler,
		ProfileHandler: profileHandler,
		AdminHandler:   adminHandler,
		UploadHandler:  uploadHandler,
		SessionStore:   sessions,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildNotifier prefers the NATS mail queue when configured, falling back to
// the direct SMTP backend.
func buildNotifier(cfg config.Config, logger zerolog.Logger) (notification.Notifier, *nats.Conn, error) {
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			return nil, nil, err
		}
		return notification.NewNATSNotifier(conn, cfg.MailSubject, logger), conn, nil
	}

	notifier, err := notification.NewSMTPNotifier(notification.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		SenderName: cfg.MailSenderName,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return notifier, nil, nil
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
