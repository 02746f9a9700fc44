package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-evaluator/internal/models"
)

// StorageService keeps uploaded datasets on disk, one directory per question type.
type StorageService interface {
	SaveDataset(file *multipart.FileHeader, qType models.QuestionType) (string, string, error)
	GetFilePath(filename string) string
	DeleteFile(filename string) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	for _, qType := range []models.QuestionType{models.QuestionTypeTechnical, models.QuestionTypeHR} {
		if err := os.MkdirAll(s.typeDir(qType), 0755); err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	return nil
}

func (s *storageService) typeDir(qType models.QuestionType) string {
	return filepath.Join(s.uploadPath, strings.ToLower(string(qType)))
}

// SaveDataset writes an uploaded CSV under <type>/<timestamp>_<uuid>.csv and
// returns the name relative to the upload dir plus the full path. The file
// only appears under its final name once completely written.
func (s *storageService) SaveDataset(file *multipart.FileHeader, qType models.QuestionType) (string, string, error) {
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".csv" {
		return "", "", fmt.Errorf("invalid file extension: %s", ext)
	}
	if file.Size == 0 {
		return "", "", fmt.Errorf("dataset file is empty")
	}

	dir := s.typeDir(qType)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	filename := filepath.Join(
		strings.ToLower(string(qType)),
		fmt.Sprintf("%s_%s.csv", time.Now().UTC().Format("20060102T150405"), uuid.NewString()),
	)
	filePath := s.GetFilePath(filename)
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return filename, filePath, nil
}

func (s *storageService) GetFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filename)
}

func (s *storageService) DeleteFile(filename string) error {
	if err := os.Remove(s.GetFilePath(filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
