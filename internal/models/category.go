package models

import "time"

// CategoryType UI 그룹핑/필터링용 고정 분류
type CategoryType string

const (
	CategoryTypeFood          CategoryType = "Food"
	CategoryTypeSports        CategoryType = "Sports"
	CategoryTypeEntertainment CategoryType = "Entertainment"
	CategoryTypePlaces        CategoryType = "Places"
	CategoryTypePeople        CategoryType = "People"
	CategoryTypeOther         CategoryType = "Other"
)

// ValidCategoryType 허용된 분류값인지 확인
func ValidCategoryType(t CategoryType) bool {
	switch t {
	case CategoryTypeFood, CategoryTypeSports, CategoryTypeEntertainment,
		CategoryTypePlaces, CategoryTypePeople, CategoryTypeOther:
		return true
	}
	return false
}

type Category struct {
	ID           string       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Description  string       `json:"description" db:"description"`
	CategoryType CategoryType `json:"categoryType" db:"category_type"`
	Upvotes      int          `json:"upvotes" db:"upvotes"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

type CreateCategoryRequest struct {
	Name         string       `json:"name" binding:"required"`
	Description  string       `json:"description"`
	CategoryType CategoryType `json:"categoryType"`
}

// BulkUploadRequest 카테고리 + 아이템 일괄 등록 요청
type BulkUploadRequest struct {
	Name         string              `json:"name" binding:"required"`
	Description  string              `json:"description"`
	CategoryType CategoryType        `json:"categoryType"`
	Items        []CreateItemRequest `json:"items" binding:"required,min=2,dive"`
}
