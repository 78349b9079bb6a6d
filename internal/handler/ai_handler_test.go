package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeAIClient struct {
	handler func(*http.Request) (*http.Response, error)
}

func (f fakeAIClient) Do(req *http.Request) (*http.Response, error) {
	if f.handler == nil {
		return nil, errors.New("no handler configured")
	}
	return f.handler(req)
}

func aiReplyBody(content string) string {
	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	buf, _ := json.Marshal(payload)
	return string(buf)
}

func TestGenerateAIPostValidation(t *testing.T) {
	api, _ := setupTestAPI(t)

	payload, _ := json.Marshal(map[string]string{"title": "", "tone": "casual"})
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.GenerateAIPost(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGenerateAIPostReturnsContent(t *testing.T) {
	api, _ := setupTestAPI(t)

	api.Writer().SetBaseURL("https://openai.test/v1")
	api.Writer().SetHTTPClient(fakeAIClient{handler: func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(aiReplyBody("# Draft\n\nGenerated."))),
			Header:     make(http.Header),
		}, nil
	}})

	payload, _ := json.Marshal(map[string]string{"title": "Go Modules", "tone": "technical"})
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.GenerateAIPost(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Content != "# Draft\n\nGenerated." {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
}

func TestGenerateAISummaryMissingAPIKey(t *testing.T) {
	api, _ := setupTestAPI(t)

	// setupTestAPI 配置了 test-key，这里单独构造一个缺 key 的实例
	noKey := NewAPI(api.DB(), "", "", "gpt-4o-mini", "")

	payload, _ := json.Marshal(map[string]string{"content": "post body"})
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-summary", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	noKey.GenerateAISummary(c)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
}

func TestGenerateAIIdeas(t *testing.T) {
	api, _ := setupTestAPI(t)

	ideas := `[{"title":"Idea","description":"Desc","tags":["a","b","c"],"wordCount":900,"tone":"casual"}]`
	api.Writer().SetBaseURL("https://openai.test/v1")
	api.Writer().SetHTTPClient(fakeAIClient{handler: func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(aiReplyBody(ideas))),
			Header:     make(http.Header),
		}, nil
	}})

	payload, _ := json.Marshal(map[string]string{"topic": "testing"})
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-ideas", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.GenerateAIIdeas(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Ideas []struct {
			Title     string `json:"title"`
			WordCount int    `json:"wordCount"`
		} `json:"ideas"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Ideas) != 1 || resp.Ideas[0].Title != "Idea" || resp.Ideas[0].WordCount != 900 {
		t.Fatalf("unexpected ideas: %+v", resp.Ideas)
	}
}
