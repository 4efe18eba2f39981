package service

import (
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/lb1717/vootes/internal/models"
	"github.com/lb1717/vootes/pkg/storage"
)

// CategoryCatalogStore 카테고리 읽기/쓰기 계약
type CategoryCatalogStore interface {
	CategoryStore
	Create(name, description string, categoryType models.CategoryType) (*models.Category, error)
}

// ItemCatalogStore 아이템 읽기/쓰기 계약
type ItemCatalogStore interface {
	ItemStore
	Create(categoryID, name, picture string) (*models.Item, error)
	FindByID(id string) (*models.Item, error)
	UpdatePicture(itemID, picture string) error
}

// CatalogService 카테고리/아이템 관리 (관리자 등록, 검색, 일괄 업로드, 이미지)
type CatalogService struct {
	categories CategoryCatalogStore
	items      ItemCatalogStore
	pictures   *storage.Storage
	logger     *zap.Logger
}

// NewCatalogService CatalogService 생성 (pictures는 nil 허용, 이미지 업로드만 비활성)
func NewCatalogService(categories CategoryCatalogStore, items ItemCatalogStore, pictures *storage.Storage) *CatalogService {
	logger, _ := zap.NewProduction()
	return &CatalogService{
		categories: categories,
		items:      items,
		pictures:   pictures,
		logger:     logger,
	}
}

// ListCategories 카테고리 목록 (search는 이름 부분 일치 필터)
func (s *CatalogService) ListCategories(search string) ([]*models.Category, error) {
	categories, err := s.categories.List(search)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory ID로 카테고리 조회
func (s *CatalogService) GetCategory(id string) (*models.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// CreateCategory 새 카테고리 생성 (분류값이 비어 있으면 Other)
func (s *CatalogService) CreateCategory(req models.CreateCategoryRequest) (*models.Category, error) {
	categoryType := req.CategoryType
	if categoryType == "" {
		categoryType = models.CategoryTypeOther
	}
	if !models.ValidCategoryType(categoryType) {
		return nil, ErrInvalidInput
	}

	category, err := s.categories.Create(req.Name, req.Description, categoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Category created",
		zap.String("categoryId", category.ID),
		zap.String("name", category.Name))

	return category, nil
}

// AddItem 카테고리에 아이템 추가 (upvotes 0, indexScore 1000으로 시작)
func (s *CatalogService) AddItem(categoryID string, req models.CreateItemRequest) (*models.Item, error) {
	category, err := s.categories.FindByID(categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	item, err := s.items.Create(categoryID, req.Name, req.Picture)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return item, nil
}

// ListItems 카테고리의 아이템 목록
func (s *CatalogService) ListItems(categoryID string) ([]models.Item, error) {
	items, err := s.items.ListByCategory(categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// BulkUpload 카테고리 하나와 아이템 여러 개를 한 번에 등록
// 아이템 일부가 실패해도 성공한 것은 유지하고 실패 목록을 돌려준다
func (s *CatalogService) BulkUpload(req models.BulkUploadRequest) (*models.Category, []models.Item, []string, error) {
	category, err := s.CreateCategory(models.CreateCategoryRequest{
		Name:         req.Name,
		Description:  req.Description,
		CategoryType: req.CategoryType,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	var created []models.Item
	var failed []string
	for _, itemReq := range req.Items {
		item, err := s.items.Create(category.ID, itemReq.Name, itemReq.Picture)
		if err != nil {
			s.logger.Error("Failed to create item in bulk upload",
				zap.String("categoryId", category.ID),
				zap.String("name", itemReq.Name),
				zap.Error(err))
			failed = append(failed, itemReq.Name)
			continue
		}
		created = append(created, *item)
	}

	s.logger.Info("Bulk upload finished",
		zap.String("categoryId", category.ID),
		zap.Int("created", len(created)),
		zap.Int("failed", len(failed)))

	return category, created, failed, nil
}

// SetItemPicture 아이템 이미지 업로드: 파일 저장 후 URL을 아이템에 기록
func (s *CatalogService) SetItemPicture(categoryID, itemID string, file *multipart.FileHeader) (*models.Item, error) {
	if s.pictures == nil {
		return nil, fmt.Errorf("picture storage not configured")
	}

	item, err := s.items.FindByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	if item == nil || item.CategoryID != categoryID {
		return nil, ErrItemNotFound
	}

	path, err := s.pictures.SavePicture(file)
	if err != nil {
		return nil, fmt.Errorf("failed to save picture: %w", err)
	}
	url := s.pictures.GetFileURL(path)

	if err := s.items.UpdatePicture(itemID, url); err != nil {
		// 참조가 안 남은 파일은 바로 치운다
		if delErr := s.pictures.DeleteFile(path); delErr != nil {
			s.logger.Warn("Failed to remove orphaned picture",
				zap.String("path", path),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to update picture: %w", err)
	}

	item.Picture = url
	s.logger.Info("Item picture updated",
		zap.String("itemId", itemID),
		zap.String("picture", url))

	return item, nil
}

// TotalVotes 전체 투표 수 (메인 화면 카운터)
func (s *CatalogService) TotalVotes() (int64, error) {
	total, err := s.categories.TotalUpvotes()
	if err != nil {
		return 0, fmt.Errorf("failed to count total votes: %w", err)
	}
	return total, nil
}
