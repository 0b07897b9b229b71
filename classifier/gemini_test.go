package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func geminiServer(t *testing.T, replyText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"parts": []map[string]string{{"text": replyText}},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGeminiOracleSentiment(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"negative", "0", 0},
		{"neutral", "1", 1},
		{"positive", "2", 2},
		{"fenced reply", "```\n2\n```", 2},
		{"padded reply", "  1  ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := geminiServer(t, tt.reply)
			defer server.Close()

			oracle := NewGeminiOracle("test-key", WithBaseURL(server.URL))
			label, err := oracle.Sentiment(context.Background(), "some comment")
			if err != nil {
				t.Fatalf("Sentiment failed: %v", err)
			}
			if label != tt.want {
				t.Errorf("label = %d, want %d", label, tt.want)
			}
		})
	}
}

func TestGeminiOracleRejectsBadLabels(t *testing.T) {
	for _, reply := range []string{"5", "-1", "positive", ""} {
		server := geminiServer(t, reply)

		oracle := NewGeminiOracle("test-key", WithBaseURL(server.URL))
		_, err := oracle.Sentiment(context.Background(), "some comment")
		if err == nil {
			t.Errorf("expected error for oracle reply %q", reply)
		}
		server.Close()
	}
}

func TestGeminiOracleHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	oracle := NewGeminiOracle("test-key", WithBaseURL(server.URL))
	_, err := oracle.Sentiment(context.Background(), "some comment")
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}
