package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mentormatch/matching/config"
	"github.com/mentormatch/matching/internal/api/handlers"
	"github.com/mentormatch/matching/internal/api/middleware"
	"github.com/mentormatch/matching/internal/api/routes"
	"github.com/mentormatch/matching/internal/cache"
	"github.com/mentormatch/matching/internal/embedding"
	"github.com/mentormatch/matching/internal/logger"
	"github.com/mentormatch/matching/internal/providers/llm"
	mongorepo "github.com/mentormatch/matching/internal/repositories/mongo"
	pgrepo "github.com/mentormatch/matching/internal/repositories/postgres"
	"github.com/mentormatch/matching/internal/services"
	"github.com/mentormatch/matching/internal/workers"
)

func main() {
	_ = godotenv.Load()

	appLog := logger.New()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	fmt.Println("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	fmt.Println("Redis connected")

	// Init MongoDB
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	fmt.Println("MongoDB connected")

	embeddingHost := os.Getenv("EMBEDDING_SERVER_URL")
	if embeddingHost == "" {
		embeddingHost = "http://localhost:8001"
	}
	registry := embedding.NewRegistry(embeddingHost)

	records := pgrepo.NewRecordRepo(config.PostgresDB)
	candidates := pgrepo.NewCandidateRepo(config.PostgresDB, appLog)
	store := pgrepo.NewVectorStore(config.PostgresDB)
	runs := mongorepo.NewMatchRunRepo(config.MongoDatabase())

	ctx := context.Background()

	// Justification judge is optional; matching degrades to plain
	// ranked lists when it is not configured or fails to start.
	var judge llm.Judge
	if projectID := os.Getenv("VERTEX_PROJECT_ID"); projectID != "" {
		location := os.Getenv("VERTEX_LOCATION")
		if location == "" {
			location = "us-central1"
		}
		j, err := llm.NewVertexGemini(ctx, projectID, location, os.Getenv("VERTEX_MODEL"))
		if err != nil {
			appLog.WithError(err).Warn("vertex judge unavailable, continuing without justifications")
		} else {
			judge = j
			defer j.Close()
		}
	}

	rcache := cache.NewRedisCache(config.RedisClient)

	embeddingSvc := services.NewEmbeddingService(records, store, registry, appLog)
	matchSvc := services.NewMatchService(records, candidates, runs, judge, rcache, appLog)

	pool := &workers.RefreshWorkerPool{
		Redis:      config.RedisClient,
		Embeddings: embeddingSvc,
		Logger:     appLog,
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("refresh worker pool error: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(appLog))

	routes.RegisterRoutes(r, routes.Deps{
		Embedding: handlers.NewEmbeddingHandler(embeddingSvc),
		Match:     handlers.NewMatchHandler(matchSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8300"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
