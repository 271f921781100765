package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"uslugihub/internal/config"
	"uslugihub/internal/handlers"
	"uslugihub/internal/repositories"
	"uslugihub/internal/services"
	"uslugihub/utils"
)

const matchCacheTTL = 10 * time.Minute

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	signingKey string
	tokens     *utils.Manager
	userRepo   *repositories.UserRepository

	wsManager       *WebSocketManager
	matchingService *services.MatchingService

	requestHandler      *handlers.RequestHandler
	matchHandler        *handlers.MatchHandler
	offerHandler        *handlers.OfferHandler
	projectHandler      *handlers.ProjectHandler
	notificationHandler *handlers.NotificationHandler
}

func initializeApp(db *sql.DB, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	requestRepo := repositories.ServiceRequestRepository{DB: db}
	companyRepo := repositories.CompanyRepository{DB: db}
	offerRepo := repositories.OfferRepository{DB: db}
	projectRepo := repositories.ProjectRepository{DB: db}
	notificationRepo := repositories.NotificationRepository{DB: db}
	userRepo := repositories.UserRepository{DB: db}

	var cache services.MatchCache
	if cfg.Redis.Addr != "" {
		cache = &services.RedisMatchCache{
			Client: redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			}),
			TTL: matchCacheTTL,
		}
	}

	var storage services.AttachmentStorage
	if cfg.Storage.Bucket != "" {
		storage = utils.NewS3Storage(cfg.Storage.Bucket, cfg.Storage.Region, cfg.Storage.Endpoint)
	}

	wsManager := NewWebSocketManager()

	// Services
	notificationService := &services.NotificationService{
		NotificationRepo: &notificationRepo,
		FCMClient:        newFCMClient(cfg.Firebase.CredentialsFile, errorLog),
		Stream:           wsManager,
		ErrorLog:         errorLog,
	}
	matchingService := &services.MatchingService{
		RequestRepo: &requestRepo,
		CompanyRepo: &companyRepo,
		Cache:       cache,
	}
	offerService := &services.OfferService{
		OfferRepo:   &offerRepo,
		RequestRepo: &requestRepo,
		CompanyRepo: &companyRepo,
		Notifier:    notificationService,
		Storage:     storage,
		Cache:       cache,
		ErrorLog:    errorLog,
	}
	projectService := &services.ProjectService{
		ProjectRepo: &projectRepo,
		Notifier:    notificationService,
		Cache:       cache,
	}
	requestService := &services.RequestService{
		RequestRepo: &requestRepo,
		OfferRepo:   &offerRepo,
	}

	tokens, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}

	return &application{
		errorLog:            errorLog,
		infoLog:             infoLog,
		db:                  db,
		signingKey:          cfg.Auth.SigningKey,
		tokens:              tokens,
		userRepo:            &userRepo,
		wsManager:           wsManager,
		matchingService:     matchingService,
		requestHandler:      &handlers.RequestHandler{Service: requestService},
		matchHandler:        &handlers.MatchHandler{Service: matchingService},
		offerHandler:        &handlers.OfferHandler{Service: offerService},
		projectHandler:      &handlers.ProjectHandler{Service: projectService},
		notificationHandler: &handlers.NotificationHandler{Service: notificationService},
	}
}

func newFCMClient(credentialsFile string, errorLog *log.Logger) *messaging.Client {
	if credentialsFile == "" {
		return nil
	}
	app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		errorLog.Printf("firebase init failed, push disabled: %v", err)
		return nil
	}
	client, err := app.Messaging(context.Background())
	if err != nil {
		errorLog.Printf("firebase messaging init failed, push disabled: %v", err)
		return nil
	}
	return client
}
