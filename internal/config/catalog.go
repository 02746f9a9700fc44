package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/interview-evaluator/internal/models"
)

// Catalog holds the rubrics and the question -> type mapping. Read-only once loaded.
type Catalog struct {
	rubrics   map[models.QuestionType]models.Rubric
	questions map[string]models.QuestionType
}

type catalogFile struct {
	Rubrics struct {
		Technical models.Rubric `yaml:"technical"`
		HR        models.Rubric `yaml:"hr"`
	} `yaml:"rubrics"`
	Questions []struct {
		Question string `yaml:"question"`
		Type     string `yaml:"type"`
	} `yaml:"questions"`
}

func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		rubrics: map[models.QuestionType]models.Rubric{
			models.QuestionTypeTechnical: file.Rubrics.Technical,
			models.QuestionTypeHR:        file.Rubrics.HR,
		},
		questions: make(map[string]models.QuestionType, len(file.Questions)),
	}

	for i, q := range file.Questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			return nil, fmt.Errorf("catalog question %d is empty", i+1)
		}
		qType, err := models.ParseQuestionType(q.Type)
		if err != nil {
			return nil, fmt.Errorf("catalog question %q: %w", text, err)
		}
		if _, dup := c.questions[text]; dup {
			return nil, fmt.Errorf("catalog question %q is declared twice", text)
		}
		c.questions[text] = qType
	}

	return c, nil
}

// NewCatalog builds a catalog directly, mostly for tests.
func NewCatalog(rubrics map[models.QuestionType]models.Rubric, questions map[string]models.QuestionType) *Catalog {
	c := &Catalog{
		rubrics:   make(map[models.QuestionType]models.Rubric, len(rubrics)),
		questions: make(map[string]models.QuestionType, len(questions)),
	}
	for k, v := range rubrics {
		c.rubrics[k] = append(models.Rubric(nil), v...)
	}
	for k, v := range questions {
		c.questions[strings.TrimSpace(k)] = v
	}
	return c
}

func (c *Catalog) Rubric(qType models.QuestionType) models.Rubric {
	return c.rubrics[qType]
}

func (c *Catalog) QuestionType(question string) (models.QuestionType, bool) {
	qType, ok := c.questions[strings.TrimSpace(question)]
	return qType, ok
}

func (c *Catalog) QuestionCount() int {
	return len(c.questions)
}
