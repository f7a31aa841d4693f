package openrouter_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glrfill/internal/config"
	"glrfill/internal/domain"
	"glrfill/internal/llm"
	"glrfill/internal/llm/openrouter"
	"glrfill/internal/port"
)

func testConfig(baseURL string) config.LLMConfig {
	return config.LLMConfig{
		Provider:      openrouter.ProviderName,
		APIKey:        "test-openrouter-key",
		BaseURL:       baseURL,
		Model:         "mistralai/mistral-7b-instruct:free",
		Temperature:   0.2,
		TimeoutSecs:   5,
		Referer:       "https://openrouter.ai",
		Title:         "Insurance-GLR-Filler",
		RequireFields: true,
	}
}

func completionResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "gen-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "mistralai/mistral-7b-instruct:free",
		"choices": []map[string]interface{}{
			{
				"index": 0,
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestClient_Complete_Request(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-openrouter-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://openrouter.ai", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Insurance-GLR-Filler", r.Header.Get("X-Title"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mistralai/mistral-7b-instruct:free", body["model"])
		assert.InDelta(t, 0.2, body["temperature"], 1e-6)
		assert.Equal(t, map[string]interface{}{"type": "json_object"}, body["response_format"])

		messages := body["messages"].([]interface{})
		if !assert.Len(t, messages, 2) {
			return
		}
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
		assert.Equal(t, "sys", messages[0].(map[string]interface{})["content"])
		assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
		assert.Equal(t, "usr", messages[1].(map[string]interface{})["content"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse(`{"fields":{}}`))
	}))
	defer server.Close()

	c, err := openrouter.New(testConfig(server.URL))
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), port.CompletionRequest{
		System: "sys", User: "usr", Temperature: 0.2, JSONObject: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"fields":{}}`, got)
}

func TestClient_Complete_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"No auth credentials found","code":401}}`))
	}))
	defer server.Close()

	c, err := openrouter.New(testConfig(server.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), port.CompletionRequest{System: "s", User: "u"})
	assert.Error(t, err)
}

func TestClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer server.Close()

	c, err := openrouter.New(testConfig(server.URL))
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), port.CompletionRequest{System: "s", User: "u"})
	assert.ErrorContains(t, err, "no choices")
}

func TestNew_RequiresKeyAndModel(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.APIKey = ""
	_, err := openrouter.New(cfg)
	assert.Error(t, err)

	cfg = testConfig("http://localhost")
	cfg.Model = ""
	_, err = openrouter.New(cfg)
	assert.Error(t, err)
}

func TestGateway_EndToEnd(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse(`{"fields":{"{{NAME}}":"Jane Doe"}}`))
	}))
	defer server.Close()

	gw, err := llm.NewGateway(testConfig(server.URL), nil)
	require.NoError(t, err)

	fields, err := gw.InferFields(context.Background(), "Dear {{NAME}}", "Insured: Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldMapping{"{{NAME}}": "Jane Doe"}, fields)
	assert.Equal(t, 1, calls)
}

func TestGateway_EndToEnd_NotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionResponse("I could not find any fields."))
	}))
	defer server.Close()

	gw, err := llm.NewGateway(testConfig(server.URL), nil)
	require.NoError(t, err)

	fields, err := gw.InferFields(context.Background(), "t", "r")
	assert.ErrorIs(t, err, domain.ErrInvalidLLMResponse)
	assert.Nil(t, fields)
}

func TestGateway_EndToEnd_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gw, err := llm.NewGateway(testConfig(server.URL), nil)
	require.NoError(t, err)

	_, err = gw.InferFields(context.Background(), "t", "r")
	assert.ErrorIs(t, err, domain.ErrLLMRequestFailed)
}
