package service

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lb1717/vootes/internal/models"
)

// VoteWriter 투표 결과를 백그라운드로 영속화
// 인메모리 상태가 진실이고 쓰기 실패는 로그만 남긴다 (투표 흐름을 막지 않음)
type VoteWriter struct {
	items      ItemStore
	categories CategoryStore
	cache      VoteCache
	ticker     VoteTicker
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewVoteWriter VoteWriter 생성 (cache/ticker는 nil 허용)
func NewVoteWriter(items ItemStore, categories CategoryStore, cache VoteCache, ticker VoteTicker) *VoteWriter {
	logger, _ := zap.NewProduction()
	return &VoteWriter{
		items:      items,
		categories: categories,
		cache:      cache,
		ticker:     ticker,
		logger:     logger,
	}
}

// PersistOutcome 한 번의 투표 결과를 비동기로 기록
// 점수 2건 + 카테고리 카운터 1건, 완료를 기다리지 않는다
func (w *VoteWriter) PersistOutcome(categoryID string, winner, loser models.Item) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		if err := w.items.UpdateScore(categoryID, winner.ID, winner.IndexScore); err != nil {
			w.logger.Error("Failed to persist winner score",
				zap.String("categoryId", categoryID),
				zap.String("itemId", winner.ID),
				zap.Error(err))
		}

		if err := w.items.UpdateScore(categoryID, loser.ID, loser.IndexScore); err != nil {
			w.logger.Error("Failed to persist loser score",
				zap.String("categoryId", categoryID),
				zap.String("itemId", loser.ID),
				zap.Error(err))
		}

		if err := w.items.IncrementUpvotes(winner.ID); err != nil {
			w.logger.Error("Failed to increment item upvotes",
				zap.String("itemId", winner.ID),
				zap.Error(err))
		}

		if err := w.categories.IncrementUpvotes(categoryID); err != nil {
			w.logger.Error("Failed to increment category upvotes",
				zap.String("categoryId", categoryID),
				zap.Error(err))
		}

		if w.cache != nil {
			total, err := w.cache.RecordVote(categoryID)
			if err != nil {
				w.logger.Warn("Failed to record vote in cache",
					zap.String("categoryId", categoryID),
					zap.Error(err))
			} else if w.ticker != nil {
				w.ticker.PublishTotal(total)
			}

			for _, it := range []models.Item{winner, loser} {
				if err := w.cache.MirrorScore(categoryID, it.ID, it.IndexScore); err != nil {
					w.logger.Warn("Failed to mirror score in cache",
						zap.String("itemId", it.ID),
						zap.Error(err))
				}
			}
		}
	}()
}

// Flush 진행 중인 쓰기 완료 대기 (종료 시점과 테스트에서 사용)
func (w *VoteWriter) Flush() {
	w.wg.Wait()
}
