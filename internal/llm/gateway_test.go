package llm_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"glrfill/internal/config"
	"glrfill/internal/domain"
	"glrfill/internal/llm"
	"glrfill/internal/port"
	"glrfill/mocks"
)

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		Provider:      "fake",
		APIKey:        "test-key",
		Model:         "test-model",
		Temperature:   0.2,
		RequireFields: true,
	}
}

func newTestGateway(t *testing.T, cfg config.LLMConfig, completer port.Completer) (*llm.Gateway, *atomic.Int32) {
	t.Helper()
	var builds atomic.Int32
	gw, err := llm.NewGatewayWithFactory(cfg, func(config.LLMConfig) (port.Completer, error) {
		builds.Add(1)
		return completer, nil
	}, nil)
	require.NoError(t, err)
	return gw, &builds
}

func TestGateway_InferFields_Success(t *testing.T) {
	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(req port.CompletionRequest) bool {
		return req.System == llm.SystemPrompt &&
			req.JSONObject &&
			req.Temperature == float32(0.2) &&
			strings.Contains(req.User, "=== TEMPLATE TEXT ===\nDear {{NAME}}\n") &&
			strings.Contains(req.User, "=== REPORT TEXT ===\nInsured: Jane Doe")
	})).Return(`{"fields":{"{{NAME}}":"Jane Doe","{{CLAIM}}":""}}`, nil)

	gw, _ := newTestGateway(t, testConfig(), completer)

	fields, err := gw.InferFields(context.Background(), "Dear {{NAME}}", "Insured: Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldMapping{"{{NAME}}": "Jane Doe", "{{CLAIM}}": ""}, fields)
	completer.AssertNumberOfCalls(t, "Complete", 1)
}

func TestGateway_InferFields_ScalarValues(t *testing.T) {
	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return(`{"fields":{"amount":12500.50,"id":12345678901234,"ok":true,"none":null}}`, nil)

	gw, _ := newTestGateway(t, testConfig(), completer)

	fields, err := gw.InferFields(context.Background(), "t", "r")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldMapping{
		"amount": "12500.50",
		"id":     "12345678901234",
		"ok":     "true",
		"none":   "",
	}, fields)
}

func TestGateway_InferFields_InvalidResponses(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "Sure! Here are the fields: NAME=Jane"},
		{"empty", ""},
		{"trailing data", `{"fields":{}} extra`},
		{"array root", `[{"fields":{}}]`},
		{"fields not object", `{"fields":"Jane"}`},
		{"nested value", `{"fields":{"a":{"b":"c"}}}`},
		{"list value", `{"fields":{"a":["b"]}}`},
		{"missing fields", `{"data":{"a":"b"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(mocks.MockCompleter)
			completer.On("Complete", mock.Anything, mock.Anything).Return(tt.content, nil)
			gw, _ := newTestGateway(t, testConfig(), completer)

			fields, err := gw.InferFields(context.Background(), "t", "r")
			assert.ErrorIs(t, err, domain.ErrInvalidLLMResponse)
			assert.Nil(t, fields)
		})
	}
}

func TestGateway_InferFields_MissingFieldsLenient(t *testing.T) {
	cfg := testConfig()
	cfg.RequireFields = false

	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return(`{"result":"nothing"}`, nil)
	gw, _ := newTestGateway(t, cfg, completer)

	fields, err := gw.InferFields(context.Background(), "t", "r")
	require.NoError(t, err)
	assert.Empty(t, fields)
	assert.NotNil(t, fields)
}

func TestGateway_InferFields_RequestFailure(t *testing.T) {
	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("status 401"))
	gw, _ := newTestGateway(t, testConfig(), completer)

	_, err := gw.InferFields(context.Background(), "t", "r")
	assert.ErrorIs(t, err, domain.ErrLLMRequestFailed)
	assert.Contains(t, err.Error(), "status 401")
	completer.AssertNumberOfCalls(t, "Complete", 1)
}

func TestGateway_ClientBuiltOnceAndShared(t *testing.T) {
	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return(`{"fields":{}}`, nil)
	gw, builds := newTestGateway(t, testConfig(), completer)

	assert.Equal(t, int32(0), builds.Load())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gw.InferFields(context.Background(), "t", "r")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	completer.AssertNumberOfCalls(t, "Complete", 8)
}

func TestGateway_MissingCredentialNotCached(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = "  "
	completer := new(mocks.MockCompleter)
	gw, builds := newTestGateway(t, cfg, completer)

	assert.False(t, gw.Configured())
	for i := 0; i < 2; i++ {
		_, err := gw.InferFields(context.Background(), "t", "r")
		assert.ErrorIs(t, err, domain.ErrLLMNotConfigured)
	}
	assert.Equal(t, int32(0), builds.Load())
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGateway_FactoryErrorRetried(t *testing.T) {
	completer := new(mocks.MockCompleter)
	completer.On("Complete", mock.Anything, mock.Anything).Return(`{"fields":{"a":"b"}}`, nil)

	var calls int
	gw, err := llm.NewGatewayWithFactory(testConfig(), func(config.LLMConfig) (port.Completer, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return completer, nil
	}, nil)
	require.NoError(t, err)

	_, err = gw.InferFields(context.Background(), "t", "r")
	assert.ErrorIs(t, err, domain.ErrLLMNotConfigured)

	fields, err := gw.InferFields(context.Background(), "t", "r")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldMapping{"a": "b"}, fields)
	assert.Equal(t, 2, calls)
}

func TestNewGateway_UnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Provider = "does-not-exist"

	_, err := llm.NewGateway(cfg, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestRegistry(t *testing.T) {
	llm.RegisterProvider("registry-test", func(config.LLMConfig) (port.Completer, error) {
		return new(mocks.MockCompleter), nil
	})

	assert.Contains(t, llm.Providers(), "registry-test")
	factory, err := llm.Provider("registry-test")
	require.NoError(t, err)
	c, err := factory(testConfig())
	require.NoError(t, err)
	assert.NotNil(t, c)
}
