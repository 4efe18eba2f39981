package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lb1717/vootes/internal/models"
	"github.com/lb1717/vootes/internal/service"
)

// TrendingHandler 트렌딩 로테이션 API
type TrendingHandler struct {
	trending *service.TrendingService
}

// NewTrendingHandler TrendingHandler 생성
func NewTrendingHandler(trending *service.TrendingService) *TrendingHandler {
	return &TrendingHandler{trending: trending}
}

// StartRotation 트렌딩 로테이션 시작 (이미 진행 중이면 현재 로테이션 반환)
func (h *TrendingHandler) StartRotation(c *gin.Context) {
	rotation, err := h.trending.StartRotation()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start rotation"})
		return
	}
	if rotation == nil {
		c.JSON(http.StatusOK, gin.H{
			"rounds":    []service.TrendingRound{},
			"completed": true,
		})
		return
	}

	c.JSON(http.StatusOK, rotation)
}

// GetRotation 현재 로테이션 조회
func (h *TrendingHandler) GetRotation(c *gin.Context) {
	rotation := h.trending.Rotation()
	if rotation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active rotation"})
		return
	}

	c.JSON(http.StatusOK, rotation)
}

// Vote 현재 라운드에 투표하고 다음 라운드로 진행
func (h *TrendingHandler) Vote(c *gin.Context) {
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rotation, err := h.trending.Vote(*req.WinnerIndex)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveRotation):
			c.JSON(http.StatusNotFound, gin.H{"error": "No active rotation"})
		case errors.Is(err, service.ErrRotationCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Rotation already completed"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "winnerIndex must be 0 or 1"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit vote"})
		}
		return
	}

	c.JSON(http.StatusOK, rotation)
}

// Reset 로테이션 파기 (트렌딩 화면 이탈)
func (h *TrendingHandler) Reset(c *gin.Context) {
	h.trending.Reset()
	c.Status(http.StatusNoContent)
}
