package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/dramlab/tastegraph/internal/http/handlers"
	"github.com/dramlab/tastegraph/internal/http/middleware"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

type RouterConfig struct {
	Log                   *logger.Logger
	ServiceName           string
	AllowOrigins          []string
	HealthHandler         *handlers.HealthHandler
	RatingHandler         *handlers.RatingHandler
	TasteHandler          *handlers.TasteHandler
	RecommendationHandler *handlers.RecommendationHandler
	ItemHandler           *handlers.ItemHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLogger(cfg.Log))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		// Catalog
		api.GET("/items", cfg.ItemHandler.SearchItems)
		api.GET("/items/top/strength", cfg.ItemHandler.TopByStrength)
		api.GET("/items/top/popularity", cfg.ItemHandler.TopByPopularity)
		api.GET("/items/strength", cfg.ItemHandler.SearchByStrength)
		api.GET("/items/:id", cfg.ItemHandler.GetItem)

		// Ratings
		api.POST("/items/:id/rating", cfg.RatingHandler.PutRating)
		api.GET("/items/:id/rating", cfg.RatingHandler.GetRating)
		api.GET("/users/:id/ratings", cfg.RatingHandler.ListRatings)

		// Taste + recommendations
		api.GET("/users/:id/taste", cfg.TasteHandler.GetTaste)
		api.GET("/users/:id/recommendations", cfg.RecommendationHandler.GetRecommendations)
	}

	return router
}
