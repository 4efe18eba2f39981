package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// allowedPictureExts 아이템 이미지로 허용하는 확장자
var allowedPictureExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".gif":  {},
}

type Storage struct {
	basePath string
}

// NewStorage 스토리지 생성
func NewStorage(basePath string) *Storage {
	return &Storage{
		basePath: basePath,
	}
}

// SavePicture 아이템 이미지 저장
func (s *Storage) SavePicture(file *multipart.FileHeader) (string, error) {
	// 파일 확장자 확인
	ext := filepath.Ext(file.Filename)
	if _, ok := allowedPictureExts[ext]; !ok {
		return "", fmt.Errorf("invalid file type: only png, jpg, jpeg, webp, gif allowed")
	}

	// 고유 파일명 생성
	filename := fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().Unix(), ext)

	// 저장 경로
	savePath := filepath.Join(s.basePath, "pictures", filename)

	// 디렉토리 생성
	dir := filepath.Dir(savePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// 파일 열기
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// 파일 저장
	dst, err := os.Create(savePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	// 상대 경로 반환
	return filepath.Join("pictures", filename), nil
}

// DeleteFile 파일 삭제
func (s *Storage) DeleteFile(filePath string) error {
	fullPath := filepath.Join(s.basePath, filePath)
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetFileURL 파일 URL 생성
func (s *Storage) GetFileURL(filePath string) string {
	// 프로덕션에서는 S3/CDN URL 등을 반환
	return fmt.Sprintf("/storage/%s", filePath)
}
