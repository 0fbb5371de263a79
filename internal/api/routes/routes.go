package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mentormatch/matching/internal/api/handlers"
	"github.com/mentormatch/matching/internal/api/middleware"
)

type Deps struct {
	Embedding *handlers.EmbeddingHandler
	Match     *handlers.MatchHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Internal service-to-service API (bot, admin panel, importer)
	api := r.Group("/api")
	api.Use(middleware.ServiceAuth())

	api.POST("/embeddings/:kind/refresh", d.Embedding.Refresh)
	api.POST("/embeddings/batch-refresh", d.Embedding.BatchRefresh)

	api.POST("/match/topic", d.Match.MatchTopic)
	api.POST("/match/role", d.Match.MatchRole)
	api.POST("/match/student", d.Match.MatchStudent)
	api.POST("/match/supervisor", d.Match.MatchSupervisor)
	api.GET("/match/history", d.Match.History)
	api.GET("/topics/needing-students", d.Match.TopicsNeedingStudents)

	api.POST("/models/pull", middleware.RequireAdmin(), d.Embedding.PullModel)
}
