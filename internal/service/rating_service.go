package service

import (
	"math"

	"github.com/lb1717/vootes/internal/models"
)

// DefaultKFactor 한 번의 투표가 레이팅을 움직이는 폭
const DefaultKFactor = 32.0

// RatingService 쌍대 비교(이긴다/진다) 결과에 따른 레이팅 계산 서비스
// 순수 계산만 수행하고 풀 병합과 저장은 호출자 책임
type RatingService struct {
	kFactor float64
}

// NewRatingService 레이팅 서비스 생성
func NewRatingService() *RatingService {
	return &RatingService{
		kFactor: DefaultKFactor,
	}
}

// UpdateRatings applies one win/lose outcome and returns updated copies of
// both items. The caller must guarantee winner.ID != loser.ID.
func (s *RatingService) UpdateRatings(winner, loser models.Item) (models.Item, models.Item) {
	return s.UpdateRatingsWithK(winner, loser, s.kFactor)
}

// UpdateRatingsWithK 지정한 K-factor로 레이팅 계산
func (s *RatingService) UpdateRatingsWithK(winner, loser models.Item, kFactor float64) (models.Item, models.Item) {
	// 기대 승률 계산
	expectedWinner := s.expectedScore(float64(winner.IndexScore), float64(loser.IndexScore))
	expectedLoser := 1.0 - expectedWinner

	newWinnerScore := float64(winner.IndexScore) + kFactor*(1.0-expectedWinner)
	newLoserScore := float64(loser.IndexScore) + kFactor*(0.0-expectedLoser)

	winner.IndexScore = int(math.Round(newWinnerScore))
	loser.IndexScore = int(math.Round(newLoserScore))

	return winner, loser
}

// expectedScore 레이팅 차이에 따른 기대 승률 계산
func (s *RatingService) expectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}
