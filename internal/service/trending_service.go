package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lb1717/vootes/internal/models"
)

// TrendingRounds 한 로테이션에서 보여주는 매치업 수
const TrendingRounds = 5

// TrendingRound 카테고리 하나의 상위 2개 아이템 대결
type TrendingRound struct {
	Category models.Category `json:"category"`
	Items    [2]models.Item  `json:"items"`
}

// TrendingRotation 서로 다른 카테고리를 도는 고정 길이 로테이션
type TrendingRotation struct {
	Rounds    []TrendingRound `json:"rounds"`
	Index     int             `json:"index"`
	Completed bool            `json:"completed"`
}

// Current 현재 라운드 (완료됐으면 nil)
func (r *TrendingRotation) Current() *TrendingRound {
	if r == nil || r.Completed || r.Index >= len(r.Rounds) {
		return nil
	}
	return &r.Rounds[r.Index]
}

// TrendingService 카테고리 세션과 독립적인 트렌딩 로테이션 관리
// 방문당 한 번만 돌고, 명시적으로 리셋해야 다시 시작한다
type TrendingService struct {
	categories CategoryStore
	items      ItemStore
	rating     *RatingService
	writer     *VoteWriter
	analytics  *Analytics
	logger     *zap.Logger
	rng        *rand.Rand

	mu       sync.Mutex
	rotation *TrendingRotation
}

// NewTrendingService TrendingService 생성
func NewTrendingService(
	categories CategoryStore,
	items ItemStore,
	rating *RatingService,
	writer *VoteWriter,
	analytics *Analytics,
) *TrendingService {
	logger, _ := zap.NewProduction()

	return &TrendingService{
		categories: categories,
		items:      items,
		rating:     rating,
		writer:     writer,
		analytics:  analytics,
		logger:     logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand 테스트용 고정 시드 주입
func (s *TrendingService) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// StartRotation 로테이션 구성: 중복 없는 랜덤 카테고리에서 상위 2개씩
// 이미 진행/완료된 로테이션이 있으면 그대로 반환한다
func (s *TrendingService) StartRotation() (*TrendingRotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rotation != nil {
		return s.rotation, nil
	}

	categories, err := s.categories.List("")
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	// 빈 카탈로그면 로테이션 없이 조용히 종료
	if len(categories) == 0 {
		return nil, nil
	}

	shuffled := make([]*models.Category, len(categories))
	copy(shuffled, categories)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var rounds []TrendingRound
	for _, category := range shuffled {
		if len(rounds) >= TrendingRounds {
			break
		}

		items, err := s.items.ListByCategory(category.ID)
		if err != nil {
			s.logger.Warn("Failed to load items for trending round",
				zap.String("categoryId", category.ID),
				zap.Error(err))
			continue
		}
		if len(items) < 2 {
			continue
		}

		sorted := sortedByScoreDesc(items)
		rounds = append(rounds, TrendingRound{
			Category: *category,
			Items:    [2]models.Item{sorted[0], sorted[1]},
		})
	}

	if len(rounds) == 0 {
		return nil, nil
	}

	s.rotation = &TrendingRotation{Rounds: rounds}
	s.logger.Info("Trending rotation started", zap.Int("rounds", len(rounds)))

	return s.rotation, nil
}

// Vote 현재 라운드에 투표: 레이팅 갱신 → 비동기 영속화 → 다음 라운드로 전진
// 마지막 라운드를 소비하면 Completed로 표시되고 재시작하지 않는다
func (s *TrendingService) Vote(winnerIdx int) (*TrendingRotation, error) {
	if winnerIdx != 0 && winnerIdx != 1 {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rotation == nil {
		return nil, ErrNoActiveRotation
	}
	if s.rotation.Completed {
		return nil, ErrRotationCompleted
	}

	round := s.rotation.Current()
	if round == nil {
		s.rotation.Completed = true
		return s.rotation, nil
	}

	winner := round.Items[winnerIdx]
	loser := round.Items[1-winnerIdx]

	updatedWinner, updatedLoser := s.rating.UpdateRatings(winner, loser)
	round.Items[winnerIdx] = updatedWinner
	round.Items[1-winnerIdx] = updatedLoser

	s.writer.PersistOutcome(round.Category.ID, updatedWinner, updatedLoser)
	s.analytics.TrendingVote(round.Category.Name, winner.Name, loser.Name, s.rotation.Index+1)

	s.rotation.Index++
	if s.rotation.Index >= len(s.rotation.Rounds) {
		s.rotation.Completed = true
		s.logger.Info("Trending rotation completed")
	}

	return s.rotation, nil
}

// Rotation 현재 로테이션 조회 (없으면 nil)
func (s *TrendingService) Rotation() *TrendingRotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation
}

// Reset 로테이션 초기화 (카테고리 선택/해제 등 외부 앱의 명시적 트리거)
func (s *TrendingService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotation = nil
}
