package repository

import (
	"database/sql"
	"fmt"

	"github.com/lb1717/vootes/internal/models"
	"github.com/lb1717/vootes/pkg/database"
)

type ItemRepository struct {
	db *database.DB
}

func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create 카테고리에 새 아이템 추가 (upvotes 0, index_score 1000으로 시작)
func (r *ItemRepository) Create(categoryID, name, picture string) (*models.Item, error) {
	query := `
		INSERT INTO items (category_id, name, picture, upvotes, index_score)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING id, category_id, name, picture, upvotes, index_score, created_at, updated_at
	`

	item := &models.Item{}
	err := r.db.QueryRow(query, categoryID, name, picture, models.InitialScore).Scan(
		&item.ID,
		&item.CategoryID,
		&item.Name,
		&item.Picture,
		&item.Upvotes,
		&item.IndexScore,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

// FindByID ID로 아이템 찾기
func (r *ItemRepository) FindByID(id string) (*models.Item, error) {
	query := `
		SELECT id, category_id, name, picture, upvotes, index_score, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	item := &models.Item{}
	err := r.db.QueryRow(query, id).Scan(
		&item.ID,
		&item.CategoryID,
		&item.Name,
		&item.Picture,
		&item.Upvotes,
		&item.IndexScore,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// ListByCategory 카테고리의 모든 아이템 조회
func (r *ItemRepository) ListByCategory(categoryID string) ([]models.Item, error) {
	query := `
		SELECT id, category_id, name, picture, upvotes, index_score, created_at, updated_at
		FROM items
		WHERE category_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item := models.Item{}
		err := rows.Scan(
			&item.ID,
			&item.CategoryID,
			&item.Name,
			&item.Picture,
			&item.Upvotes,
			&item.IndexScore,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// UpdateScore 아이템 레이팅 절대값 저장 (멱등 쓰기)
func (r *ItemRepository) UpdateScore(categoryID, itemID string, score int) error {
	query := `
		UPDATE items
		SET index_score = $3, updated_at = NOW()
		WHERE category_id = $1 AND id = $2
	`

	result, err := r.db.Exec(query, categoryID, itemID, score)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item not found: %s", itemID)
	}

	return nil
}

// UpdatePicture 아이템 이미지 URL 교체
func (r *ItemRepository) UpdatePicture(itemID, picture string) error {
	query := `
		UPDATE items
		SET picture = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, itemID, picture)
	if err != nil {
		return fmt.Errorf("failed to update picture: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("item not found: %s", itemID)
	}

	return nil
}

// IncrementUpvotes 아이템이 이긴 횟수 1 증가
func (r *ItemRepository) IncrementUpvotes(itemID string) error {
	query := `
		UPDATE items
		SET upvotes = upvotes + 1, updated_at = NOW()
		WHERE id = $1
	`

	if _, err := r.db.Exec(query, itemID); err != nil {
		return fmt.Errorf("failed to increment item upvotes: %w", err)
	}

	return nil
}
