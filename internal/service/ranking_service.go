package service

import (
	"fmt"

	"github.com/lb1717/vootes/internal/models"
)

// LeaderboardPageSize 결과 화면 한 페이지 크기
const LeaderboardPageSize = 10

// RankingService 아이템 풀의 점수 내림차순 projection
// 상태 없음, 변형 없음
type RankingService struct {
	items ItemStore
}

// NewRankingService RankingService 생성
func NewRankingService(items ItemStore) *RankingService {
	return &RankingService{items: items}
}

// Leaderboard 점수 내림차순 정렬 사본 (동점은 입력 순서 유지)
func (s *RankingService) Leaderboard(pool []models.Item) []models.Item {
	return sortedByScoreDesc(pool)
}

// Page 리더보드의 page번째 조각 (0-기반, 페이지 크기 10)
func (s *RankingService) Page(pool []models.Item, page int) []models.Item {
	sorted := sortedByScoreDesc(pool)

	if page < 0 {
		page = 0
	}
	start := page * LeaderboardPageSize
	if start >= len(sorted) {
		return []models.Item{}
	}
	end := start + LeaderboardPageSize
	if end > len(sorted) {
		end = len(sorted)
	}

	return sorted[start:end]
}

// LeaderboardForCategory 저장소에서 읽어 정렬한 페이지 반환 (결과 탭용)
func (s *RankingService) LeaderboardForCategory(categoryID string, page int) ([]models.Item, int, error) {
	items, err := s.items.ListByCategory(categoryID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load items: %w", err)
	}

	return s.Page(items, page), len(items), nil
}
