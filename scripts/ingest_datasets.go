package main

import (
	"context"
	"log"
	"os"
	"strings"

	"alfredoptarigan/interview-evaluator/internal/config"
	"alfredoptarigan/interview-evaluator/internal/models"
	"alfredoptarigan/interview-evaluator/internal/repositories"
	"alfredoptarigan/interview-evaluator/internal/services"
)

func main() {
	log.Println("🚀 Starting dataset ingestion...")

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	geminiService, err := services.NewGeminiService(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		cfg.Gemini.EmbedModel,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	ingestion := services.NewIngestionService(
		repositories.NewHistoricalRepository(db),
		geminiService,
		qdrantService,
	)

	ctx := context.Background()

	datasets := []struct {
		Path string
		Type models.QuestionType
		Name string
	}{
		{
			Path: "./datasets/technical.csv",
			Type: models.QuestionTypeTechnical,
			Name: "Technical interview answers",
		},
		{
			Path: "./datasets/hr.csv",
			Type: models.QuestionTypeHR,
			Name: "HR interview answers",
		},
	}

	successCount := 0
	failCount := 0

	for _, ds := range datasets {
		log.Printf("\n📄 Processing: %s", ds.Name)
		log.Printf("   Path: %s", ds.Path)
		log.Printf("   Type: %s", ds.Type)

		if _, err := os.Stat(ds.Path); os.IsNotExist(err) {
			log.Printf("   ⚠️  File not found, skipping...")
			failCount++
			continue
		}

		indexed, err := ingestion.IngestFile(ctx, ds.Path, ds.Type)
		if err != nil {
			log.Printf("   ❌ Failed to ingest: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Indexed %d questions from %s", indexed, ds.Name)
		successCount++
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d datasets", successCount)
	log.Printf("   ❌ Failed: %d datasets", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some datasets failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All datasets ingested successfully!")
}
