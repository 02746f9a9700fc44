package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"alfredoptarigan/interview-evaluator/internal/models"
)

// ParseDataset reads a CSV with a question,answer,overall_score header.
// Column order is taken from the header; extra columns are ignored.
func ParseDataset(r io.Reader, qType models.QuestionType) ([]models.HistoricalRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{"question", "answer", "overall_score"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("dataset is missing the %q column", required)
		}
	}

	position := map[string]int{}
	var records []models.HistoricalRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		question := strings.TrimSpace(field(row, columns["question"]))
		if question == "" {
			continue
		}

		score, err := strconv.ParseFloat(strings.TrimSpace(field(row, columns["overall_score"])), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid overall_score: %w", line, err)
		}

		record := models.HistoricalRecord{
			QuestionType: qType,
			Question:     question,
			Answer:       strings.TrimSpace(field(row, columns["answer"])),
			OverallScore: score,
		}

		// Later rows win for duplicated questions
		if i, dup := position[question]; dup {
			records[i] = record
			continue
		}
		position[question] = len(records)
		records = append(records, record)
	}

	return records, nil
}

func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// HistoricalWriter persists historical records.
type HistoricalWriter interface {
	ReplaceType(qType models.QuestionType, records []models.HistoricalRecord) error
}

// QuestionWriter maintains the similarity index.
type QuestionWriter interface {
	UpsertQuestion(ctx context.Context, qType models.QuestionType, question string, embedding []float32) error
	DeleteQuestionType(ctx context.Context, qType models.QuestionType) error
}

type IngestionService struct {
	repo     HistoricalWriter
	embedder Embedder
	index    QuestionWriter
}

func NewIngestionService(repo HistoricalWriter, embedder Embedder, index QuestionWriter) *IngestionService {
	return &IngestionService{
		repo:     repo,
		embedder: embedder,
		index:    index,
	}
}

// IngestFile parses a CSV dataset file and ingests it.
func (s *IngestionService) IngestFile(ctx context.Context, path string, qType models.QuestionType) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := ParseDataset(f, qType)
	if err != nil {
		return 0, err
	}

	return s.Ingest(ctx, qType, records)
}

// Ingest replaces the stored dataset of a question type with records and
// re-indexes their questions. Records that fail to embed are still stored;
// the count returned is the number indexed. Nothing is replaced when no
// question can be embedded, or when records is empty.
func (s *IngestionService) Ingest(ctx context.Context, qType models.QuestionType, records []models.HistoricalRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	embeddings := make([][]float32, len(records))
	embedded := 0
	for i, r := range records {
		embedding, err := s.embedder.GenerateEmbedding(ctx, r.Question)
		if err != nil {
			log.Printf("   ❌ Failed to embed question %d: %v", i+1, err)
			continue
		}
		embeddings[i] = embedding
		embedded++
	}
	if embedded == 0 {
		return 0, fmt.Errorf("%w: none of %d questions could be embedded", ErrExternalService, len(records))
	}

	if err := s.repo.ReplaceType(qType, records); err != nil {
		return 0, err
	}

	if err := s.index.DeleteQuestionType(ctx, qType); err != nil {
		return 0, fmt.Errorf("%w: failed to clear %s questions: %v", ErrExternalService, qType, err)
	}

	indexed := 0
	for i, r := range records {
		if embeddings[i] == nil {
			continue
		}

		if err := s.index.UpsertQuestion(ctx, qType, r.Question, embeddings[i]); err != nil {
			log.Printf("   ❌ Failed to index question %d: %v", i+1, err)
			continue
		}
		indexed++

		if indexed%10 == 0 || indexed == embedded {
			log.Printf("   📊 Progress: %d/%d questions indexed", indexed, len(records))
		}
	}

	if indexed == 0 {
		return 0, fmt.Errorf("%w: none of %d questions could be indexed", ErrExternalService, len(records))
	}

	return indexed, nil
}
