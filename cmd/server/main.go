package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dialog-crowd/tablechat/internal/common/clock"
	"github.com/dialog-crowd/tablechat/internal/common/code"
	"github.com/dialog-crowd/tablechat/internal/common/random"
	"github.com/dialog-crowd/tablechat/internal/handlers/web"
	"github.com/dialog-crowd/tablechat/internal/repositories/participant"
	"github.com/dialog-crowd/tablechat/internal/repositories/scenario"
	"github.com/dialog-crowd/tablechat/internal/services/coordinator"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	participantRepo, err := participant.NewRedis(&participant.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create participant repository: %v", err)
	}

	scenarioStore, err := scenario.NewFile(&scenario.Config{
		Path: getEnv("SCENARIOS_FILE", "scenarios.json"),
	})
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}

	// Initialize coordinator service
	coordinatorSvc, err := coordinator.New(&coordinator.Config{
		WaitingSeconds:           getEnvInt("WAITING_SECONDS", 0),
		SingleTaskSeconds:        getEnvInt("SINGLE_TASK_SECONDS", 0),
		ChatSeconds:              getEnvInt("CHAT_SECONDS", 0),
		FinishedSeconds:          getEnvInt("FINISHED_SECONDS", 0),
		ConnectionTimeoutSeconds: getEnvInt("CONNECTION_TIMEOUT_SECONDS", 0),
		MaxSingleTasks:           getEnvInt("MAX_SINGLE_TASKS", 0),
		ParticipantRepo:          participantRepo,
		ScenarioStore:            scenarioStore,
		Clock:                    &clock.DefaultClock{},
		Random:                   random.New(&random.Config{}),
		Codes:                    code.New(),
	})
	if err != nil {
		log.Fatalf("Failed to create coordinator service: %v", err)
	}

	// Initialize transcript recorder
	transcripts, err := web.NewTranscript(&web.TranscriptConfig{
		Dir: getEnv("TRANSCRIPT_DIR", "transcripts"),
	})
	if err != nil {
		log.Fatalf("Failed to create transcript recorder: %v", err)
	}

	// Initialize web server
	server, err := web.New(&web.Config{
		Addr:        getEnv("HTTP_ADDR", ":8080"),
		Coordinator: coordinatorSvc,
		Transcripts: transcripts,
	})
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}

	// Start the server
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start web server: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Shutdown the server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Error stopping server: %v", err)
	}

	log.Println("Server has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return parsed
}
