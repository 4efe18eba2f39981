package service

import "github.com/lb1717/vootes/internal/models"

// ItemStore 아이템 영속 계층 계약 (repository.ItemRepository가 구현)
// 점수 쓰기는 절대값이라 멱등이다
type ItemStore interface {
	ListByCategory(categoryID string) ([]models.Item, error)
	UpdateScore(categoryID, itemID string, score int) error
	IncrementUpvotes(itemID string) error
}

// CategoryStore 카테고리 영속 계층 계약 (repository.CategoryRepository가 구현)
type CategoryStore interface {
	List(search string) ([]*models.Category, error)
	FindByID(id string) (*models.Category, error)
	IncrementUpvotes(id string) error
	TotalUpvotes() (int64, error)
}

// VoteCache 투표 집계 캐시 (Redis ZSET/카운터 미러, 없어도 동작)
type VoteCache interface {
	RecordVote(categoryID string) (total int64, err error)
	MirrorScore(categoryID, itemID string, score int) error
}

// VoteTicker 실시간 전체 투표 수 브로드캐스트 (WebSocket 허브가 구현)
type VoteTicker interface {
	PublishTotal(total int64)
}
