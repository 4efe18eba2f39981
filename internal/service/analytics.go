package service

import (
	"go.uber.org/zap"
)

// Analytics 사용자 행동 이벤트 기록
// 외부 분석 파이프라인 대신 구조화 로그로 내보낸다
type Analytics struct {
	logger *zap.Logger
}

// NewAnalytics Analytics 생성
func NewAnalytics() *Analytics {
	logger, _ := zap.NewProduction()
	return &Analytics{
		logger: logger.Named("analytics"),
	}
}

// Vote 일반 투표 이벤트
func (a *Analytics) Vote(categoryName, winnerName, loserName string) {
	a.logger.Info("vote",
		zap.String("category", categoryName),
		zap.String("winner", winnerName),
		zap.String("loser", loserName))
}

// TrendingVote 트렌딩 라운드 투표 이벤트
func (a *Analytics) TrendingVote(categoryName, winnerName, loserName string, round int) {
	a.logger.Info("trending_vote",
		zap.String("category", categoryName),
		zap.String("winner", winnerName),
		zap.String("loser", loserName),
		zap.Int("round", round))
}

// CategorySelect 카테고리 진입 이벤트
func (a *Analytics) CategorySelect(categoryName string) {
	a.logger.Info("category_select",
		zap.String("category", categoryName))
}

// LockIn 1위 확정 이벤트
func (a *Analytics) LockIn(categoryName, itemName string) {
	a.logger.Info("lock_in",
		zap.String("category", categoryName),
		zap.String("item", itemName))
}
