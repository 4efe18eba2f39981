package service

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lb1717/vootes/internal/models"
	"github.com/lb1717/vootes/pkg/storage"
)

type fakeCatalogCategories struct {
	*fakeCategoryStore
	nextID int
}

func (f *fakeCatalogCategories) Create(name, description string, categoryType models.CategoryType) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	category := &models.Category{
		ID:           fmt.Sprintf("cat-%d", f.nextID),
		Name:         name,
		Description:  description,
		CategoryType: categoryType,
	}
	f.categories[category.ID] = category
	return category, nil
}

type fakeCatalogItems struct {
	*fakeItemStore
	failNames map[string]bool
	nextID    int
}

func (f *fakeCatalogItems) Create(categoryID, name, picture string) (*models.Item, error) {
	if f.failNames[name] {
		return nil, fmt.Errorf("insert failed for %s", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item := models.Item{
		ID:         fmt.Sprintf("item-%d", f.nextID),
		CategoryID: categoryID,
		Name:       name,
		Picture:    picture,
		IndexScore: models.InitialScore,
	}
	f.items[categoryID] = append(f.items[categoryID], item)
	return &item, nil
}

func (f *fakeCatalogItems) FindByID(id string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, items := range f.items {
		for _, it := range items {
			if it.ID == id {
				found := it
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeCatalogItems) UpdatePicture(itemID, picture string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for categoryID := range f.items {
		for i := range f.items[categoryID] {
			if f.items[categoryID][i].ID == itemID {
				f.items[categoryID][i].Picture = picture
				return nil
			}
		}
	}
	return fmt.Errorf("item not found: %s", itemID)
}

func newTestCatalogService(t *testing.T) (*CatalogService, *fakeCatalogCategories, *fakeCatalogItems) {
	t.Helper()
	categories := &fakeCatalogCategories{fakeCategoryStore: newFakeCategoryStore()}
	items := &fakeCatalogItems{fakeItemStore: newFakeItemStore(), failNames: map[string]bool{}}
	svc := NewCatalogService(categories, items, storage.NewStorage(t.TempDir()))
	return svc, categories, items
}

// pictureUpload builds a parsed multipart file header the way gin hands it over.
func pictureUpload(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("picture", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("not-a-real-image"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["picture"]
	require.Len(t, files, 1)
	return files[0]
}

func TestCatalogService_CreateCategory(t *testing.T) {
	svc, _, _ := newTestCatalogService(t)

	category, err := svc.CreateCategory(models.CreateCategoryRequest{
		Name:         "Burgers",
		CategoryType: models.CategoryTypeFood,
	})
	require.NoError(t, err)
	assert.Equal(t, "Burgers", category.Name)
	assert.Equal(t, models.CategoryTypeFood, category.CategoryType)
}

func TestCatalogService_CreateCategoryDefaultsToOther(t *testing.T) {
	svc, _, _ := newTestCatalogService(t)

	category, err := svc.CreateCategory(models.CreateCategoryRequest{Name: "Misc"})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryTypeOther, category.CategoryType)
}

func TestCatalogService_CreateCategoryRejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestCatalogService(t)

	_, err := svc.CreateCategory(models.CreateCategoryRequest{
		Name:         "Weird",
		CategoryType: "galaxies",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCatalogService_AddItem(t *testing.T) {
	svc, _, _ := newTestCatalogService(t)

	category, err := svc.CreateCategory(models.CreateCategoryRequest{Name: "Burgers"})
	require.NoError(t, err)

	item, err := svc.AddItem(category.ID, models.CreateItemRequest{Name: "Smash"})
	require.NoError(t, err)
	assert.Equal(t, models.InitialScore, item.IndexScore)
	assert.Equal(t, category.ID, item.CategoryID)

	_, err = svc.AddItem("missing", models.CreateItemRequest{Name: "Orphan"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogService_BulkUploadPartialFailure(t *testing.T) {
	svc, _, items := newTestCatalogService(t)
	items.failNames["Broken"] = true

	category, created, failed, err := svc.BulkUpload(models.BulkUploadRequest{
		Name: "Burgers",
		Items: []models.CreateItemRequest{
			{Name: "Smash"},
			{Name: "Broken"},
			{Name: "Classic"},
		},
	})
	require.NoError(t, err)
	assert.NotNil(t, category)
	assert.Len(t, created, 2)
	assert.Equal(t, []string{"Broken"}, failed)
}

func TestCatalogService_SetItemPicture(t *testing.T) {
	svc, _, items := newTestCatalogService(t)

	category, err := svc.CreateCategory(models.CreateCategoryRequest{Name: "Burgers"})
	require.NoError(t, err)
	item, err := svc.AddItem(category.ID, models.CreateItemRequest{Name: "Smash"})
	require.NoError(t, err)

	updated, err := svc.SetItemPicture(category.ID, item.ID, pictureUpload(t, "smash.png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(updated.Picture, "/storage/"), "picture = %s", updated.Picture)

	stored, err := items.FindByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Picture, stored.Picture)
}

func TestCatalogService_SetItemPictureRejectsBadExtension(t *testing.T) {
	svc, _, _ := newTestCatalogService(t)

	category, err := svc.CreateCategory(models.CreateCategoryRequest{Name: "Burgers"})
	require.NoError(t, err)
	item, err := svc.AddItem(category.ID, models.CreateItemRequest{Name: "Smash"})
	require.NoError(t, err)

	_, err = svc.SetItemPicture(category.ID, item.ID, pictureUpload(t, "payload.exe"))
	assert.Error(t, err)
}

func TestCatalogService_SetItemPictureWrongCategory(t *testing.T) {
	svc, _, _ := newTestCatalogService(t)

	category, err := svc.CreateCategory(models.CreateCategoryRequest{Name: "Burgers"})
	require.NoError(t, err)
	item, err := svc.AddItem(category.ID, models.CreateItemRequest{Name: "Smash"})
	require.NoError(t, err)

	_, err = svc.SetItemPicture("other-category", item.ID, pictureUpload(t, "smash.png"))
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStorage_SavePictureWritesFile(t *testing.T) {
	base := t.TempDir()
	store := storage.NewStorage(base)

	path, err := store.SavePicture(pictureUpload(t, "pic.jpg"))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(base, path))
	require.NoError(t, err)
	assert.Equal(t, "not-a-real-image", string(content))

	require.NoError(t, store.DeleteFile(path))
	_, err = os.Stat(filepath.Join(base, path))
	assert.True(t, os.IsNotExist(err))
}
