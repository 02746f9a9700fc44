package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Qdrant     QdrantConfig
	Gemini     GeminiConfig
	Storage    StorageConfig
	Worker     WorkerConfig
	Evaluation EvaluationConfig
	Grammar    GrammarConfig
	Catalog    CatalogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency       int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
}

// EvaluationConfig holds the blending policy of the answer evaluator.
type EvaluationConfig struct {
	ScoringRuns         int
	Neighbours          int
	MinAnswerWords      int
	HistoricalThreshold float64
	// Exact match with a strong historical score.
	ExactHistoricalWeight float64
	// Relevant (non-exact) matches.
	RelevantFreshWeight float64
}

type GrammarConfig struct {
	LanguageToolURL    string
	Language           string
	RequestTimeout     time.Duration
	WordThreshold      int
	ErrorRateThreshold float64
	LongTextWords      int
	MinimalWords       int
	ForceAI            bool
}

type CatalogConfig struct {
	Path string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "interview_evaluator"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "30m"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6334"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_questions"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:       getEnvAsInt("WORKER_CONCURRENCY", 3),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
		},
		Evaluation: EvaluationConfig{
			ScoringRuns:           getEnvAsInt("EVAL_SCORING_RUNS", 3),
			Neighbours:            getEnvAsInt("EVAL_NEIGHBOURS", 3),
			MinAnswerWords:        getEnvAsInt("EVAL_MIN_ANSWER_WORDS", 3),
			HistoricalThreshold:   getEnvAsFloat("EVAL_HISTORICAL_THRESHOLD", 70),
			ExactHistoricalWeight: getEnvAsFloat("EVAL_EXACT_HISTORICAL_WEIGHT", 0.7),
			RelevantFreshWeight:   getEnvAsFloat("EVAL_RELEVANT_FRESH_WEIGHT", 0.7),
		},
		Grammar: GrammarConfig{
			LanguageToolURL:    getEnv("LANGUAGETOOL_URL", "http://localhost:8010"),
			Language:           getEnv("LANGUAGETOOL_LANGUAGE", "en-US"),
			RequestTimeout:     getEnvAsDuration("LANGUAGETOOL_TIMEOUT", "10s"),
			WordThreshold:      getEnvAsInt("GRAMMAR_WORD_THRESHOLD", 30),
			ErrorRateThreshold: getEnvAsFloat("GRAMMAR_ERROR_RATE_THRESHOLD", 0.08),
			LongTextWords:      getEnvAsInt("GRAMMAR_LONG_TEXT_WORDS", 50),
			MinimalWords:       getEnvAsInt("GRAMMAR_MINIMAL_WORDS", 5),
			ForceAI:            getEnvAsBool("GRAMMAR_FORCE_AI", false),
		},
		Catalog: CatalogConfig{
			Path: getEnv("CATALOG_PATH", "./configs/catalog.yaml"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
