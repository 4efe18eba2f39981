package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lb1717/vootes/internal/models"
	"github.com/lb1717/vootes/internal/service"
)

// SessionHandler 카테고리 투표 세션 API
type SessionHandler struct {
	game *service.GameService
}

// NewSessionHandler SessionHandler 생성
func NewSessionHandler(game *service.GameService) *SessionHandler {
	return &SessionHandler{game: game}
}

// StartSession 카테고리 선택: 새 투표 세션 시작
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, ok := service.ParseMode(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game mode"})
		return
	}

	snapshot, err := h.game.StartSession(req.CategoryID, mode)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, snapshot)
}

// GetSession 세션 상태 조회
func (h *SessionHandler) GetSession(c *gin.Context) {
	snapshot, err := h.game.GetSession(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// SubmitVote 현재 매치업에 투표
func (h *SessionHandler) SubmitVote(c *gin.Context) {
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.game.SubmitVote(c.Param("id"), *req.WinnerIndex)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "winnerIndex must be 0 or 1"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit vote"})
		}
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// LockIn 아이템을 세션의 1위로 확정
func (h *SessionHandler) LockIn(c *gin.Context) {
	var req models.LockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.game.LockInAsNumberOne(c.Param("id"), req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, service.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not in session pool"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock in"})
		}
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// SwitchMode 래더/랜덤 모드 전환
func (h *SessionHandler) SwitchMode(c *gin.Context) {
	var req models.SwitchModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, ok := service.ParseMode(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game mode"})
		return
	}

	snapshot, err := h.game.SwitchMode(c.Param("id"), mode)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to switch mode"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// EndSession 카테고리 이탈: 세션 파기
func (h *SessionHandler) EndSession(c *gin.Context) {
	h.game.EndSession(c.Param("id"))
	c.Status(http.StatusNoContent)
}
