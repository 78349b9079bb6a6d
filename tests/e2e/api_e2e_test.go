package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/handler"
	"github.com/inkwell/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	baseURL     = "https://inkwell.test"
	adminToken  = "e2e-admin-token"
	sessionKey  = "e2e-session-secret"
	adminEmail  = "admin@inkwell.test"
	memberEmail = "member@inkwell.test"
)

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(h http.Handler) *localClient {
	jar, _ := cookiejar.New(nil)
	return &localClient{handler: h, jar: jar}
}

func (c *localClient) do(t *testing.T, method, path string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, baseURL+path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	c.jar.SetCookies(req.URL, resp.Cookies())
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func newRouterUnderTest(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.User{}, &db.Post{}, &db.PostTag{}, &db.Comment{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	api := handler.NewAPI(gdb, "", "", "gpt-4o-mini", adminToken)
	return router.Setup(api, sessionKey, gin.TestMode)
}

func TestE2E_PublishAndEngageFlow(t *testing.T) {
	r := newRouterUnderTest(t)
	admin := newLocalClient(r)
	member := newLocalClient(r)

	// 注册管理员与普通读者
	resp := admin.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":             "admin",
		"email":            adminEmail,
		"password":         "admin-pass",
		"adminAccessToken": adminToken,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin register: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = member.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "member",
		"email":    memberEmail,
		"password": "member-pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("member register: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 管理员发布一篇文章和一篇草稿
	var published struct {
		ID   uint   `json:"ID"`
		Slug string `json:"slug"`
	}
	resp = admin.do(t, http.MethodPost, "/api/posts", map[string]interface{}{
		"title":   "Shipping a Comment System",
		"content": "# Intro\n\nThreads, replies, moderation.",
		"tags":    []string{"go", "product"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &published)

	resp = admin.do(t, http.MethodPost, "/api/posts", map[string]interface{}{
		"title":   "Unfinished Thoughts",
		"content": "draft body",
		"isDraft": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create draft: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 读者不能建文章
	resp = member.do(t, http.MethodPost, "/api/posts", map[string]interface{}{
		"title": "Sneaky Post", "content": "nope",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("member create post: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 公开列表默认只含已发布文章
	var list struct {
		TotalCount int64 `json:"totalCount"`
		Counts     struct {
			All   int64 `json:"all"`
			Draft int64 `json:"draft"`
		} `json:"counts"`
	}
	resp = member.do(t, http.MethodGet, "/api/posts", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list posts: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &list)
	if list.TotalCount != 1 || list.Counts.All != 2 || list.Counts.Draft != 1 {
		t.Fatalf("unexpected list payload: %+v", list)
	}

	// 按 slug 读取并累计浏览
	resp = member.do(t, http.MethodGet, "/api/posts/slug/"+published.Slug, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get by slug: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	postID := strconv.Itoa(int(published.ID))
	for i := 0; i < 3; i++ {
		resp = member.do(t, http.MethodPost, "/api/posts/"+postID+"/view", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("increment view: expected 200, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	// 点赞需要登录会话
	resp = member.do(t, http.MethodPost, "/api/posts/"+postID+"/like", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("like: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 评论与一层回复
	var parentComment struct {
		ID uint `json:"ID"`
	}
	resp = member.do(t, http.MethodPost, "/api/comments/"+postID, map[string]string{
		"content": "Great writeup!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add comment: expected 201, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &parentComment)

	resp = admin.do(t, http.MethodPost, "/api/comments/"+postID, map[string]interface{}{
		"content":       "Thanks for reading.",
		"parentComment": parentComment.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add reply: expected 201, got %d", resp.StatusCode)
	}
	var reply struct {
		ID uint `json:"ID"`
	}
	decodeBody(t, resp, &reply)

	// 回复的回复被拒绝
	resp = member.do(t, http.MethodPost, "/api/comments/"+postID, map[string]interface{}{
		"content":       "Replying to a reply.",
		"parentComment": reply.ID,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("nested reply: expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// 公开的评论树
	var tree []struct {
		ID      uint `json:"ID"`
		Replies []struct {
			ID uint `json:"ID"`
		} `json:"replies"`
	}
	resp = member.do(t, http.MethodGet, "/api/comments/"+postID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get comments: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &tree)
	if len(tree) != 1 || len(tree[0].Replies) != 1 {
		t.Fatalf("unexpected tree shape: %+v", tree)
	}

	// 仪表盘仅限管理员
	resp = member.do(t, http.MethodGet, "/api/dashboard-summary", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("member dashboard: expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	var dashboard struct {
		Stats struct {
			TotalPosts    int64 `json:"totalPosts"`
			Published     int64 `json:"published"`
			Drafts        int64 `json:"drafts"`
			TotalComments int64 `json:"totalComments"`
			TotalViews    int64 `json:"totalViews"`
			TotalLikes    int64 `json:"totalLikes"`
		} `json:"stats"`
	}
	resp = admin.do(t, http.MethodGet, "/api/dashboard-summary", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin dashboard: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &dashboard)
	if dashboard.Stats.TotalPosts != 2 || dashboard.Stats.Published != 1 || dashboard.Stats.Drafts != 1 {
		t.Fatalf("unexpected post stats: %+v", dashboard.Stats)
	}
	if dashboard.Stats.TotalComments != 2 {
		t.Fatalf("expected 2 comments, got %d", dashboard.Stats.TotalComments)
	}
	if dashboard.Stats.TotalViews != 3 || dashboard.Stats.TotalLikes != 1 {
		t.Fatalf("unexpected engagement totals: %+v", dashboard.Stats)
	}

	// 删除顶层评论级联清掉回复
	resp = member.do(t, http.MethodDelete, "/api/comments/"+strconv.Itoa(int(parentComment.ID)), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete comment: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = member.do(t, http.MethodGet, "/api/comments/"+postID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get comments after delete: expected 200, got %d", resp.StatusCode)
	}
	tree = tree[:0]
	decodeBody(t, resp, &tree)
	if len(tree) != 0 {
		t.Fatalf("expected empty tree after cascade delete, got %+v", tree)
	}

	// 退出登录后受保护接口拒绝访问
	resp = member.do(t, http.MethodPost, "/api/auth/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = member.do(t, http.MethodPost, "/api/posts/"+postID+"/like", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("like after logout: expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestE2E_SearchTagAndTrending(t *testing.T) {
	r := newRouterUnderTest(t)
	admin := newLocalClient(r)

	resp := admin.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name":             "admin",
		"email":            adminEmail,
		"password":         "admin-pass",
		"adminAccessToken": adminToken,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	titles := []string{"Go Concurrency", "Go Testing", "Postgres Internals"}
	ids := make([]uint, 0, len(titles))
	for _, title := range titles {
		var created struct {
			ID uint `json:"ID"`
		}
		resp = admin.do(t, http.MethodPost, "/api/posts", map[string]interface{}{
			"title":   title,
			"content": "body of " + title,
			"tags":    []string{"deep-dive"},
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %q: expected 201, got %d", title, resp.StatusCode)
		}
		decodeBody(t, resp, &created)
		ids = append(ids, created.ID)
	}

	// 让第三篇文章浏览量领先
	for i := 0; i < 5; i++ {
		resp = admin.do(t, http.MethodPost, "/api/posts/"+strconv.Itoa(int(ids[2]))+"/view", nil)
		resp.Body.Close()
	}

	var hits []struct {
		Title string `json:"title"`
	}
	resp = admin.do(t, http.MethodGet, "/api/posts/search?q=go", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &hits)
	if len(hits) != 2 {
		t.Fatalf("expected 2 search hits, got %+v", hits)
	}

	var tagged []struct {
		Title string `json:"title"`
	}
	resp = admin.do(t, http.MethodGet, "/api/posts/tag/deep-dive", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("tag lookup: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &tagged)
	if len(tagged) != 3 {
		t.Fatalf("expected 3 tagged posts, got %+v", tagged)
	}

	var trending []struct {
		Title string `json:"title"`
		Views int64  `json:"views"`
	}
	resp = admin.do(t, http.MethodGet, "/api/posts/trending", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trending: expected 200, got %d", resp.StatusCode)
	}
	decodeBody(t, resp, &trending)
	if len(trending) != 3 || trending[0].Title != "Postgres Internals" {
		t.Fatalf("expected most-viewed post first, got %+v", trending)
	}
}
