package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
)

func TestDashboardSummaryEmptyDatabase(t *testing.T) {
	api, _ := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard-summary", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.DashboardSummary(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, key := range []string{"stats", "topPosts", "recentComments", "tagUsage", "tagChart"} {
		if _, ok := resp[key]; !ok {
			t.Fatalf("expected %q in response, got %v", key, resp)
		}
	}
	// 列表字段序列化为 [] 而不是 null
	for _, key := range []string{"topPosts", "recentComments", "tagUsage", "tagChart"} {
		if string(resp[key]) == "null" {
			t.Fatalf("expected %q to be an empty array, got null", key)
		}
	}
}

func TestDashboardSummaryCollapsesTagChart(t *testing.T) {
	api, gdb := setupTestAPI(t)
	post := seedHandlerPost(t, gdb, "Tagged Post", false)

	// 六个不同标签，图表折叠为前四个加 Others
	for i, name := range []string{"go", "web", "databases", "testing", "ops", "misc"} {
		tag := db.PostTag{PostID: post.ID, Position: i, Name: name}
		if err := gdb.Create(&tag).Error; err != nil {
			t.Fatalf("seed tag: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard-summary", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.DashboardSummary(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		TagUsage []struct {
			Tag   string `json:"tag"`
			Count int64  `json:"count"`
		} `json:"tagUsage"`
		TagChart []struct {
			Tag   string `json:"tag"`
			Count int64  `json:"count"`
		} `json:"tagChart"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.TagUsage) != 6 {
		t.Fatalf("expected raw usage table untouched, got %d entries", len(resp.TagUsage))
	}
	if len(resp.TagChart) != 5 {
		t.Fatalf("expected 4 kept entries plus Others, got %d", len(resp.TagChart))
	}
	if resp.TagChart[4].Tag != "Others" || resp.TagChart[4].Count != 2 {
		t.Fatalf("unexpected Others bucket: %+v", resp.TagChart[4])
	}
}
