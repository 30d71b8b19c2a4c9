package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/WhiteboxHub/project-vendor-emails-extractor-sub000/internal/utils"
)

// fakeCompletionServer serves a canned chat completion message.
func fakeCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": content},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestExtractor(baseURL string) *EntityExtractor {
	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = baseURL + "/v1"
	client := openai.NewClientWithConfig(cfg)
	logger := zap.NewNop()
	return NewEntityExtractor(client, "gpt-4o-mini", 1000, 0.1, 0.9, 4096, 0.5, logger, utils.NewTextProcessor(logger))
}

func TestExtractEntitiesFiltersByThresholdAndLabel(t *testing.T) {
	srv := fakeCompletionServer(t, `{"entities":[
		{"label":"person name","text":"Jane Doe","score":0.92},
		{"label":"company","text":"Acme Staffing","score":0.3},
		{"label":"job title","text":"Developer","score":0.9},
		{"label":"Location","text":" Austin ","score":0.8}
	]}`)
	defer srv.Close()

	got, err := newTestExtractor(srv.URL).ExtractEntities(context.Background(),
		"body", []string{"person name", "company", "location"})
	if err != nil {
		t.Fatalf("ExtractEntities: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}
	if got[0].Label != "person name" || got[0].Text != "Jane Doe" {
		t.Errorf("first entity = %+v", got[0])
	}
	if got[1].Label != "location" || got[1].Text != "Austin" {
		t.Errorf("second entity = %+v", got[1])
	}
}

func TestExtractEntitiesProseWrappedJSON(t *testing.T) {
	srv := fakeCompletionServer(t,
		"Here are the entities:\n{\"entities\":[{\"label\":\"company\",\"text\":\"Acme\",\"score\":0.9}]}\nDone.")
	defer srv.Close()

	got, err := newTestExtractor(srv.URL).ExtractEntities(context.Background(), "body", []string{"company"})
	if err != nil {
		t.Fatalf("ExtractEntities: %v", err)
	}
	if len(got) != 1 || got[0].Text != "Acme" {
		t.Fatalf("got = %+v", got)
	}
}

func TestExtractEntitiesNoLabels(t *testing.T) {
	got, err := newTestExtractor("http://unreachable.invalid").ExtractEntities(context.Background(), "body", nil)
	if err != nil {
		t.Fatalf("ExtractEntities: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestClassify(t *testing.T) {
	srv := fakeCompletionServer(t, `{"label":"Recruiter","score":0.87}`)
	defer srv.Close()

	got, err := newTestExtractor(srv.URL).Classify(context.Background(), "body")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got.Label != "recruiter" || got.Score != 0.87 {
		t.Errorf("got = %+v", got)
	}
}

func TestClassifyGarbageResponse(t *testing.T) {
	srv := fakeCompletionServer(t, "cannot comply")
	defer srv.Close()

	if _, err := newTestExtractor(srv.URL).Classify(context.Background(), "body"); err == nil {
		t.Fatal("expected parse error")
	}
}
