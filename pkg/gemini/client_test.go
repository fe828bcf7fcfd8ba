package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContent(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  string
		wantText string
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"overall"}, {"text": "_assessment\": \"ok\"}"}]}, "finishReason": "STOP"}]}`,
			wantText: `{"overall_assessment": "ok"}`,
		},
		{
			name:    "quota_exceeded",
			status:  http.StatusTooManyRequests,
			body:    `{"error": {"message": "quota exceeded"}}`,
			wantErr: "unexpected status 429",
		},
		{
			name:    "malformed_response",
			status:  http.StatusOK,
			body:    `{invalid`,
			wantErr: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))

			resp, err := client.GenerateContent(context.Background(), "gemini-2.5-flash", GenerateRequest{
				Contents: []Content{{Role: "user", Parts: []Part{{Text: "Hi"}}}},
			})

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantText, resp.Text())
		})
	}
}

func TestGenerateContentRequestBody(t *testing.T) {
	var captured GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "{}"}]}}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	temp := 0.3
	_, err := client.GenerateContent(context.Background(), "gemini-2.5-flash", GenerateRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "document"}}}},
		GenerationConfig: &GenerationConfig{
			Temperature:      &temp,
			ResponseMimeType: "application/json",
		},
	})
	require.NoError(t, err)

	require.Len(t, captured.Contents, 1)
	assert.Equal(t, "document", captured.Contents[0].Parts[0].Text)
	require.NotNil(t, captured.GenerationConfig)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	require.NotNil(t, captured.GenerationConfig.Temperature)
	assert.InDelta(t, 0.3, *captured.GenerationConfig.Temperature, 0.0001)
}

func TestGenerateResponseTextEmpty(t *testing.T) {
	t.Parallel()

	resp := &GenerateResponse{}
	assert.Equal(t, "", resp.Text())
}
