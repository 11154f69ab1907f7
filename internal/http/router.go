package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/catalog"
	"github.com/mrlokans/lexicon/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Without cfg.Auth every request is anonymous, so only public reads succeed.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(logging.RequestLogger(logger))
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecureHeaders())
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.AllowedOrigins))
	}

	health := NewHealthController(cfg.Database, cfg.Entries, cfg.Version, logger)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	mw := cfg.Auth
	api := router.Group("/api")
	if mw != nil {
		api.Use(mw.Handler())
	} else {
		mw = auth.NewMiddleware(nil, nil)
	}
	requireCaller := mw.RequireCaller()

	if cfg.Words != nil {
		words := NewWordsController(cfg.Words, cfg.FeaturedLimit, logger)
		api.GET("/words", words.List)
		api.GET("/words/featured", words.Featured)
		api.GET("/words/search", words.Search)
		api.GET("/words/:id", words.Get)
		api.POST("/words", requireCaller, words.Create)
		api.PATCH("/words/:id", requireCaller, words.Update)
		api.DELETE("/words/:id", requireCaller, words.Delete)
	}

	if cfg.Favorites != nil {
		favorites := NewFavoritesController(cfg.Favorites, logger)
		api.GET("/favorites", requireCaller, favorites.ListFavorites)
		api.GET("/words/:id/favorite", requireCaller, favorites.CheckFavorite)
		api.POST("/words/:id/favorite", requireCaller, favorites.AddFavorite)
		api.DELETE("/words/:id/favorite", requireCaller, favorites.RemoveFavorite)
	}

	if cfg.Moderation != nil {
		moderation := NewModerationController(cfg.Moderation, cfg.History, logger)
		admin := api.Group("/admin", mw.RequireRole(catalog.RoleAdmin))
		admin.GET("/words/pending", moderation.Pending)
		admin.PATCH("/words/:id/status", moderation.SetStatus)
		admin.GET("/words/:id/history", moderation.History)
	}

	if cfg.Categories != nil {
		categories := NewCategoriesController(cfg.Categories, logger)
		api.GET("/categories", categories.List)
	}

	if cfg.Dictionary != nil {
		lookup := NewLookupController(cfg.Dictionary, logger)
		api.GET("/lookup", requireCaller, lookup.Lookup)
		api.GET("/lookup/languages", lookup.Languages)
	}

	return router
}
