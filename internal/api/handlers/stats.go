package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lb1717/vootes/internal/cache"
	"github.com/lb1717/vootes/internal/service"
)

// StatsHandler 전체 투표 수 통계 API
type StatsHandler struct {
	catalog *service.CatalogService
	cache   *cache.VoteCache
	logger  *zap.Logger
}

// NewStatsHandler StatsHandler 생성 (cache는 nil 허용)
func NewStatsHandler(catalog *service.CatalogService, voteCache *cache.VoteCache, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		catalog: catalog,
		cache:   voteCache,
		logger:  logger,
	}
}

// GetTotalVotes 전 카테고리 누적 투표 수 (Redis 우선, DB fallback)
func (h *StatsHandler) GetTotalVotes(c *gin.Context) {
	if h.cache != nil {
		total, err := h.cache.TotalVotes()
		if err == nil && total > 0 {
			c.JSON(http.StatusOK, gin.H{"totalVotes": total, "source": "cache"})
			return
		}
		if err != nil {
			h.logger.Warn("vote cache read failed, falling back to db", zap.Error(err))
		}
	}

	total, err := h.catalog.TotalVotes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get total votes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"totalVotes": total, "source": "db"})
}
