package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"postgen/internal/config"
	"postgen/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvider(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("read body: %v", err)
		return nil
	}
	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Errorf("unmarshal body: %v", err)
	}
	return req
}

func writeCompletion(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "cmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": text},
		}},
	})
}

func testCall() llm.Call {
	return llm.Call{
		Model:        "mistralai/Mistral-7B-Instruct-v0.3",
		SystemPrompt: "You are a writer",
		UserPrompt:   "AI in hiring",
		Temperature:  0.7,
		MaxTokens:    500,
		Credential:   "secret-key",
	}
}

func TestHTTPTransportSendsExplicitBody(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := readBody(t, r)
		assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.3", req["model"])
		assert.EqualValues(t, 500, req["max_tokens"])
		assert.EqualValues(t, 0.7, req["temperature"])

		msgs, ok := req["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 2)
		first, _ := msgs[0].(map[string]any)
		second, _ := msgs[1].(map[string]any)
		assert.Equal(t, "system", first["role"])
		assert.Equal(t, "You are a writer", first["content"])
		assert.Equal(t, "user", second["role"])
		assert.Equal(t, "AI in hiring", second["content"])

		writeCompletion(w, "Hello **world**")
	})

	tr := llm.NewHTTPTransport(config.TogetherConfig{BaseURL: srv.URL + "/v1/"}, srv.Client())
	text, err := tr.Complete(context.Background(), testCall())

	require.NoError(t, err)
	assert.Equal(t, "Hello **world**", text)
}

func TestHTTPTransportErrorMessageFromBody(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "top level", body: `{"message":"Invalid API key"}`, want: "Invalid API key"},
		{name: "nested", body: `{"error":{"message":"model not found","type":"invalid_request_error"}}`, want: "model not found"},
		{name: "no message", body: `not json`, want: "failed to generate post"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(tc.body))
			})

			tr := llm.NewHTTPTransport(config.TogetherConfig{BaseURL: srv.URL}, srv.Client())
			_, err := tr.Complete(context.Background(), testCall())

			var apiErr *llm.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestHTTPTransportRejectsEmptyChoices(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	tr := llm.NewHTTPTransport(config.TogetherConfig{BaseURL: srv.URL}, srv.Client())
	_, err := tr.Complete(context.Background(), testCall())

	assert.ErrorIs(t, err, llm.ErrEmptyResponse)
}

func TestHTTPTransportRequiresCredential(t *testing.T) {
	tr := llm.NewHTTPTransport(config.TogetherConfig{BaseURL: "http://127.0.0.1:0"}, nil)
	call := testCall()
	call.Credential = ""

	_, err := tr.Complete(context.Background(), call)
	assert.ErrorIs(t, err, llm.ErrMissingAPIKey)
}

func TestSDKTransportCallsChatCompletions(t *testing.T) {
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))

		req := readBody(t, r)
		assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.3", req["model"])
		assert.EqualValues(t, 500, req["max_tokens"])
		msgs, ok := req["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 2)
		first, _ := msgs[0].(map[string]any)
		assert.Equal(t, "system", first["role"])

		writeCompletion(w, "from sdk")
	})

	tr := llm.NewSDKTransport(config.TogetherConfig{BaseURL: srv.URL + "/v1"}, srv.Client())
	text, err := tr.Complete(context.Background(), testCall())

	require.NoError(t, err)
	assert.Equal(t, "from sdk", text)
}

func TestSDKTransportMapsStatusErrors(t *testing.T) {
	calls := 0
	srv := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	})

	tr := llm.NewSDKTransport(config.TogetherConfig{BaseURL: srv.URL + "/v1"}, srv.Client())
	_, err := tr.Complete(context.Background(), testCall())

	var apiErr *llm.APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, 1, calls, "sdk must not retry on its own")
}
