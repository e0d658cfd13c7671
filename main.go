package main

import (
	"context"
	"errors"
	"fmt"
	"interview-service/internal/config"
	"interview-service/internal/domain/entities"
	Iservices "interview-service/internal/domain/interfaces/services"
	"interview-service/internal/infra/handlers"
	"interview-service/internal/infra/logger"
	"interview-service/internal/infra/provider"
	"interview-service/internal/infra/repository"
	"interview-service/internal/infra/routes"
	"interview-service/internal/infra/services"
	"interview-service/internal/middleware"
	client "interview-service/internal/pkg"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
)

func main() {
	config.LoadEnv()

	ctx := context.Background()
	log := logger.NewLogger(ctx, true)

	mongoClient := client.MongoClient()
	interviewDB := mongoClient.Database("InterviewSessions")

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	sessionRepo := repository.NewMongoRepository[entities.InterviewSession](interviewDB)

	blobStore := provider.NewFsBlobStore(log, config.GetEnvOrDefault("AUDIO_STORE_DIR", "recordings"))

	httpClient := &http.Client{Timeout: 60 * time.Second}

	reasoningHost := config.GetEnv("REASONING_API_HOST")

	var sessionStore Iservices.ISessionStoreService = services.NewSessionStoreService(sessionRepo, log)
	var turnService Iservices.ITurnService = services.NewTurnService(log, httpClient, reasoningHost)

	scores := services.NewScoreService(
		config.GetEnvFloat("SCORE_SCALE", services.DefaultScoreScale),
		config.GetEnvInt("FALLBACK_MINUTES_PER_QUESTION", services.DefaultMinutesPerQuestion),
	)

	var interviewService Iservices.IInterviewService = services.NewInterviewService(log, turnService, sessionStore, blobStore, scores)

	interviewHandlers := handlers.NewInterviewHandlers(log, interviewService)

	routes := routes.NewRoutes(
		router,
		interviewHandlers,
	)

	routes.Init()

	port := config.GetEnvOrDefault("PORT", "8080")
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
