package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lb1717/vootes/internal/service"
)

type LeaderboardHandler struct {
	ranking *service.RankingService
}

func NewLeaderboardHandler(ranking *service.RankingService) *LeaderboardHandler {
	return &LeaderboardHandler{
		ranking: ranking,
	}
}

// GetLeaderboard godoc
// @Summary Get category leaderboard
// @Description Get items of a category ranked by index score
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param page query int false "Zero-based page number" default(0)
// @Success 200 {object} map[string]interface{} "Leaderboard page with item rankings"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /categories/{id}/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	categoryID := c.Param("id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))

	items, total, err := h.ranking.LeaderboardForCategory(categoryID, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get leaderboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categoryId":  categoryID,
		"page":        page,
		"pageSize":    service.LeaderboardPageSize,
		"leaderboard": items,
		"total":       total,
	})
}
