package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageToolClient_Check(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/check", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "en-GB", r.PostForm.Get("language"))
		assert.Equal(t, "She go to work", r.PostForm.Get("text"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"matches": [{
				"message": "The verb does not agree with the subject.",
				"offset": 4,
				"length": 2,
				"replacements": [{"value": "goes"}, {"value": "went"}],
				"rule": {"id": "HE_VERB_AGR", "category": {"id": "GRAMMAR", "name": "Grammar"}}
			}]
		}`))
	}))
	defer server.Close()

	client := NewLanguageToolClient(server.URL+"/", "en-GB", time.Second)

	matches, err := client.Check(context.Background(), "She go to work")
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, GrammarMatch{
		Category:     "GRAMMAR",
		RuleID:       "HE_VERB_AGR",
		Message:      "The verb does not agree with the subject.",
		Offset:       4,
		Length:       2,
		Replacements: []string{"goes", "went"},
	}, matches[0])
}

func TestLanguageToolClient_Failures(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewLanguageToolClient(server.URL, "", time.Second).Check(context.Background(), "text")
	assert.ErrorIs(t, err, ErrExternalService)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err = NewLanguageToolClient(server.URL, "", time.Second).Check(ctx, "text")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
