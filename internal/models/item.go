package models

import "time"

// InitialScore 새 아이템의 시작 레이팅
const InitialScore = 1000

type Item struct {
	ID         string    `json:"id" db:"id"`
	CategoryID string    `json:"categoryId" db:"category_id"`
	Name       string    `json:"name" db:"name"`
	Picture    string    `json:"picture" db:"picture"`
	Upvotes    int       `json:"upvotes" db:"upvotes"`
	IndexScore int       `json:"indexScore" db:"index_score"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateItemRequest struct {
	Name    string `json:"name" binding:"required"`
	Picture string `json:"picture"`
}
