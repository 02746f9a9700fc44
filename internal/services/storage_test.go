package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/interview-evaluator/internal/models"
)

func uploadedFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("dataset", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["dataset"][0]
}

func TestStorageService_SaveDataset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	storage := NewStorageService(dir)
	require.NoError(t, storage.EnsureUploadDir())

	content := "question,answer,overall_score\nWhy us?,Because.,70\n"
	filename, path, err := storage.SaveDataset(uploadedFile(t, "HR.CSV", content), models.QuestionTypeHR)
	require.NoError(t, err)

	assert.Equal(t, "hr", filepath.Dir(filename))
	assert.Equal(t, storage.GetFilePath(filename), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	// Only the final file remains, no temporary leftovers.
	entries, err := os.ReadDir(filepath.Join(dir, "hr"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, storage.DeleteFile(filename))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.Error(t, storage.DeleteFile(filename))
}

func TestStorageService_Rejects(t *testing.T) {
	t.Parallel()

	storage := NewStorageService(t.TempDir())

	_, _, err := storage.SaveDataset(uploadedFile(t, "answers.pdf", "%PDF"), models.QuestionTypeTechnical)
	assert.Error(t, err)

	_, _, err = storage.SaveDataset(uploadedFile(t, "empty.csv", ""), models.QuestionTypeTechnical)
	assert.Error(t, err)
}
