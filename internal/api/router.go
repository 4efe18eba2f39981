package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/lb1717/vootes/internal/api/handlers"
	"github.com/lb1717/vootes/internal/api/middleware"
	"github.com/lb1717/vootes/internal/cache"
	"github.com/lb1717/vootes/internal/config"
	"github.com/lb1717/vootes/internal/repository"
	"github.com/lb1717/vootes/internal/service"
	"github.com/lb1717/vootes/internal/websocket"
	"github.com/lb1717/vootes/pkg/database"
	"github.com/lb1717/vootes/pkg/logger"
	"github.com/lb1717/vootes/pkg/storage"
)

// SetupRouter API 라우터 설정 (redisClient는 nil 허용)
func SetupRouter(cfg *config.Config, db *database.DB, redisClient *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 전역 미들웨어
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Repository 초기화
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)

	// Storage 초기화 (아이템 이미지)
	storageManager := storage.NewStorage(cfg.StoragePath)

	// WebSocket Hub 초기화 및 시작
	wsHub := websocket.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Vote cache 초기화 (Redis 없이도 동작)
	var voteCache *cache.VoteCache
	var writerCache service.VoteCache
	if redisClient != nil {
		voteCache = cache.NewVoteCache(redisClient)
		writerCache = voteCache

		// 캐시 총계를 DB 기준으로 맞춘다
		if total, err := categoryRepo.TotalUpvotes(); err == nil {
			if err := voteCache.SeedTotal(total); err != nil {
				logger.Warn("Failed to seed vote cache", "error", err)
			}
		}
	}

	// Service 초기화
	ratingService := service.NewRatingService()
	voteWriter := service.NewVoteWriter(itemRepo, categoryRepo, writerCache, wsHub)
	analytics := service.NewAnalytics()
	gameService := service.NewGameService(itemRepo, categoryRepo, ratingService, voteWriter, analytics)
	trendingService := service.NewTrendingService(categoryRepo, itemRepo, ratingService, voteWriter, analytics)
	rankingService := service.NewRankingService(itemRepo)
	catalogService := service.NewCatalogService(categoryRepo, itemRepo, storageManager)

	// 방치된 세션 정리 루프 시작
	gameService.StartJanitor(time.Minute, cfg.SessionIdleTimeout)
	logger.Info("Session janitor started", "idleTimeout", cfg.SessionIdleTimeout)

	// Handler 초기화
	categoryHandler := handlers.NewCategoryHandler(catalogService)
	sessionHandler := handlers.NewSessionHandler(gameService)
	trendingHandler := handlers.NewTrendingHandler(trendingService)
	leaderboardHandler := handlers.NewLeaderboardHandler(rankingService)
	statsHandler := handlers.NewStatsHandler(catalogService, voteCache, logger.Named("stats"))
	wsHandler := handlers.NewWebSocketHandler(wsHub)

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// 업로드된 아이템 이미지 서빙
	router.Static("/storage", cfg.StoragePath)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// WebSocket endpoint (전체 투표 수 티커)
		v1.GET("/ws", wsHandler.HandleWebSocket)

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.POST("", middleware.AdminRateLimit(), categoryHandler.CreateCategory)
			categories.POST("/bulk", middleware.AdminRateLimit(), categoryHandler.BulkUpload)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.GET("/:id/items", categoryHandler.ListItems)
			categories.POST("/:id/items", middleware.AdminRateLimit(), categoryHandler.AddItem)
			categories.POST("/:id/items/:itemId/picture", middleware.AdminRateLimit(), categoryHandler.UploadItemPicture)
			categories.GET("/:id/leaderboard", leaderboardHandler.GetLeaderboard)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.StartSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.POST("/:id/vote", middleware.VoteRateLimit(cfg.VoteRateLimit), sessionHandler.SubmitVote)
			sessions.POST("/:id/lock-in", sessionHandler.LockIn)
			sessions.POST("/:id/mode", sessionHandler.SwitchMode)
			sessions.DELETE("/:id", sessionHandler.EndSession)
		}

		// Trending routes
		trending := v1.Group("/trending")
		{
			trending.POST("", trendingHandler.StartRotation)
			trending.GET("", trendingHandler.GetRotation)
			trending.POST("/vote", middleware.VoteRateLimit(cfg.VoteRateLimit), trendingHandler.Vote)
			trending.DELETE("", trendingHandler.Reset)
		}

		// Stats routes
		v1.GET("/stats/total-votes", statsHandler.GetTotalVotes)
	}

	return router
}
