package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lb1717/vootes/internal/models"
	"github.com/lb1717/vootes/internal/service"
)

// CategoryHandler 카테고리/아이템 카탈로그 API
type CategoryHandler struct {
	catalog *service.CatalogService
}

// NewCategoryHandler CategoryHandler 생성
func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// ListCategories 카테고리 목록 조회 (?search= 이름 부분 일치)
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	search := c.Query("search")

	categories, err := h.catalog.ListCategories(search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"total":      len(categories),
	})
}

// GetCategory 카테고리 단건 조회
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id := c.Param("id")

	category, err := h.catalog.GetCategory(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// CreateCategory 새 카테고리 등록
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.catalog.CreateCategory(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// AddItem 카테고리에 아이템 추가
func (h *CategoryHandler) AddItem(c *gin.Context) {
	categoryID := c.Param("id")

	var req models.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.catalog.AddItem(categoryID, req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// ListItems 카테고리의 아이템 목록 조회
func (h *CategoryHandler) ListItems(c *gin.Context) {
	categoryID := c.Param("id")

	items, err := h.catalog.ListItems(categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

// BulkUpload 카테고리 + 아이템 일괄 등록
func (h *CategoryHandler) BulkUpload(c *gin.Context) {
	var req models.BulkUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, items, failed, err := h.catalog.BulkUpload(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to bulk upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
		"items":    items,
		"failed":   failed,
	})
}

// UploadItemPicture 아이템 이미지 업로드 (multipart, 필드명 "picture")
func (h *CategoryHandler) UploadItemPicture(c *gin.Context) {
	categoryID := c.Param("id")
	itemID := c.Param("itemId")

	file, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "picture file is required"})
		return
	}

	item, err := h.catalog.SetItemPicture(categoryID, itemID, file)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload picture"})
		return
	}

	c.JSON(http.StatusOK, item)
}
