package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GrammarMatch is one rule hit reported by the local grammar engine.
type GrammarMatch struct {
	Category     string
	RuleID       string
	Message      string
	Offset       int
	Length       int
	Replacements []string
}

type GrammarEngine interface {
	Check(ctx context.Context, text string) ([]GrammarMatch, error)
}

type languageToolClient struct {
	baseURL  string
	language string
	timeout  time.Duration
}

// NewLanguageToolClient talks to a LanguageTool server's /v2/check endpoint.
func NewLanguageToolClient(baseURL, language string, timeout time.Duration) GrammarEngine {
	if language == "" {
		language = "en-US"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &languageToolClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: language,
		timeout:  timeout,
	}
}

type languageToolResponse struct {
	Matches []struct {
		Message      string `json:"message"`
		Offset       int    `json:"offset"`
		Length       int    `json:"length"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Rule struct {
			ID       string `json:"id"`
			Category struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"category"`
		} `json:"rule"`
	} `json:"matches"`
}

// Check implements GrammarEngine.
func (c *languageToolClient) Check(ctx context.Context, text string) ([]GrammarMatch, error) {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ctx.Err()
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("language", c.language)
	args.Set("text", text)

	agent := fiber.Post(c.baseURL + "/v2/check")
	agent.Form(args)
	agent.Timeout(timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: languagetool request failed: %v", ErrExternalService, errs[0])
	}
	if code != fiber.StatusOK {
		return nil, fmt.Errorf("%w: languagetool returned status %d", ErrExternalService, code)
	}

	var resp languageToolResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode languagetool response: %w", err)
	}

	matches := make([]GrammarMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		match := GrammarMatch{
			Category: m.Rule.Category.ID,
			RuleID:   m.Rule.ID,
			Message:  m.Message,
			Offset:   m.Offset,
			Length:   m.Length,
		}
		for _, r := range m.Replacements {
			match.Replacements = append(match.Replacements, r.Value)
		}
		matches = append(matches, match)
	}

	return matches, nil
}
