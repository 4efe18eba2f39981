package repository

import (
	"database/sql"
	"fmt"

	"github.com/lb1717/vootes/internal/models"
	"github.com/lb1717/vootes/pkg/database"
)

type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 새 카테고리 생성
func (r *CategoryRepository) Create(name, description string, categoryType models.CategoryType) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, description, category_type)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, category_type, upvotes, created_at, updated_at
	`

	category := &models.Category{}
	err := r.db.QueryRow(query, name, description, categoryType).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CategoryType,
		&category.Upvotes,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// FindByID ID로 카테고리 찾기
func (r *CategoryRepository) FindByID(id string) (*models.Category, error) {
	query := `
		SELECT id, name, description, category_type, upvotes, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	category := &models.Category{}
	err := r.db.QueryRow(query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CategoryType,
		&category.Upvotes,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}

// List 전체 카테고리 조회 (search가 있으면 이름 부분 일치 필터)
func (r *CategoryRepository) List(search string) ([]*models.Category, error) {
	query := `
		SELECT id, name, description, category_type, upvotes, created_at, updated_at
		FROM categories
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name ASC
	`

	rows, err := r.db.Query(query, search)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.CategoryType,
			&category.Upvotes,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// IncrementUpvotes 카테고리 투표 수 1 증가
func (r *CategoryRepository) IncrementUpvotes(id string) error {
	query := `
		UPDATE categories
		SET upvotes = upvotes + 1, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to increment upvotes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("category not found: %s", id)
	}

	return nil
}

// TotalUpvotes 전체 카테고리 투표 수 합계 (메인 화면 카운터용)
func (r *CategoryRepository) TotalUpvotes() (int64, error) {
	query := `SELECT COALESCE(SUM(upvotes), 0) FROM categories`

	var total int64
	if err := r.db.QueryRow(query).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum upvotes: %w", err)
	}

	return total, nil
}
