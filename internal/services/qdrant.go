package services

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/interview-evaluator/internal/models"
)

// QuestionIndex finds stored questions similar to a new one.
type QuestionIndex interface {
	Nearest(ctx context.Context, qType models.QuestionType, question string, limit int) ([]string, error)
}

type QdrantService interface {
	QuestionIndex
	InitCollection() error
	UpsertQuestion(ctx context.Context, qType models.QuestionType, question string, embedding []float32) error
	DeleteQuestionType(ctx context.Context, qType models.QuestionType) error
}

type qdrantService struct {
	client         *qdrant.Client
	embedder       Embedder
	collectionName string
	vectorSize     uint64
}

func NewQdrantService(urlStr, apiKey, collectionName string, embedder Embedder) (QdrantService, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port by default
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantService{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

// InitCollection implements QdrantService.
func (q *qdrantService) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertQuestion implements QdrantService. Re-ingesting the same question
// overwrites its point.
func (q *qdrantService) UpsertQuestion(ctx context.Context, qType models.QuestionType, question string, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(QuestionPointID(qType, question)),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"question":      question,
			"question_type": string(qType),
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Nearest implements QuestionIndex. Results are ordered by similarity.
func (q *qdrantService) Nearest(ctx context.Context, qType models.QuestionType, question string, limit int) ([]string, error) {
	embedding, err := q.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed question: %v", ErrExternalService, err)
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         questionTypeFilter(qType),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search: %v", ErrExternalService, err)
	}

	questions := make([]string, 0, len(points))
	for _, point := range points {
		if text, ok := point.Payload["question"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok && val.StringValue != "" {
				questions = append(questions, val.StringValue)
			}
		}
	}

	return questions, nil
}

func questionTypeFilter(qType models.QuestionType) *qdrant.Filter {
	if qType == "" {
		return nil
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("question_type", string(qType)),
		},
	}
}

// DeleteQuestionType implements QdrantService.
func (q *qdrantService) DeleteQuestionType(ctx context.Context, qType models.QuestionType) error {
	if qType == "" {
		return fmt.Errorf("question type is required")
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: questionTypeFilter(qType),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}

	return nil
}

// QuestionPointID derives a stable point ID from the question type and text.
func QuestionPointID(qType models.QuestionType, question string) uint64 {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(string(qType)+"\x00"+question))
	return binary.BigEndian.Uint64(id[:8])
}
