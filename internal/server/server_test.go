package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/artikelin/api/internal/auth"
	"github.com/artikelin/api/internal/client"
	"github.com/artikelin/api/internal/config"
	"github.com/artikelin/api/internal/logging"
	"github.com/artikelin/api/internal/middleware"
	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/server"
	"github.com/artikelin/api/internal/service"
	"github.com/artikelin/api/internal/store"
	"github.com/artikelin/api/internal/store/storetest"
	ws "github.com/artikelin/api/internal/websocket"
	"github.com/artikelin/api/internal/worker"
)

const testJWTSecret = "test-secret-key-for-e2e"

// heldSpawner keeps dispatched executions until the test releases them
type heldSpawner struct {
	mu    sync.Mutex
	tasks []func()
}

func (h *heldSpawner) Spawn(task func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tasks = append(h.tasks, task)
}

func (h *heldSpawner) RunAll() {
	h.mu.Lock()
	tasks := h.tasks
	h.tasks = nil
	h.mu.Unlock()
	for _, task := range tasks {
		task()
	}
}

type testApp struct {
	app     *fiber.App
	store   *store.Store
	spawner *heldSpawner
}

// setupTestApp creates a fully wired app backed by an in-memory database.
// Job executions are held until the test calls spawner.RunAll.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()

	log := logging.Discard()
	st := storetest.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub(log)
	go hub.Run(ctx)

	settings := service.NewSettingsService(st)
	registry := client.NewProviderRegistry(client.ProviderGemini, client.NewMockGenerator(),
		client.NewOpenAIClient(client.ProviderGemini, &config.LLMConfig{Model: "gemini-flash-latest"}),
	)
	runner := worker.NewGenerationWorker(st, settings, hub, log, 0)
	spawner := &heldSpawner{}

	app := server.New(server.Deps{
		Store:       st,
		Jobs:        service.NewJobService(st, settings, registry, runner, log, service.WithSpawner(spawner.Spawn)),
		Articles:    service.NewArticleService(st),
		Keywords:    service.NewKeywordService(st),
		Settings:    settings,
		Registry:    registry,
		Hub:         hub,
		Auth:        middleware.NewAuthMiddleware(testJWTSecret),
		RateLimiter: middleware.NewRateLimiter(nil, log),
		JobsPerHour: 10000,
		Log:         log,
	})

	return &testApp{app: app, store: st, spawner: spawner}
}

// generateToken issues a token signed with the test secret.
func generateToken(t *testing.T) string {
	t.Helper()
	token, err := auth.IssueToken(testJWTSecret, "test-user-123", "test@example.com", "admin", time.Hour)
	require.NoError(t, err)
	return token
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doAuthRequest performs an authenticated request.
func doAuthRequest(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	resp, err := doRequest(app, method, path, body, map[string]string{
		"Authorization": "Bearer " + generateToken(t),
	})
	require.NoError(t, err)
	return resp
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &result), "body: %s", string(b))
	return result
}

// errorOf returns the code and message of an error envelope.
func errorOf(t *testing.T, resp *http.Response) (string, string) {
	t.Helper()
	body := parseJSON(t, resp)
	detail, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %v", body)
	return detail["code"].(string), detail["message"].(string)
}

func (ta *testApp) createJob(t *testing.T, body string) uuid.UUID {
	t.Helper()
	resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/jobs", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	job := parseJSON(t, resp)
	id, err := uuid.Parse(job["id"].(string))
	require.NoError(t, err)
	return id
}

func (ta *testApp) seedArticle(t *testing.T, slug string, previous *string) *model.Article {
	t.Helper()
	article := &model.Article{
		Title:               "Kopi Susu",
		Slug:                slug,
		MetaDescription:     "Meta kopi",
		ContentHTML:         "<p>current</p>",
		PreviousContentHTML: previous,
		Tags:                datatypes.JSONSlice[string]{"kopi"},
		Status:              model.ArticleStatusPublished,
		Version:             1,
	}
	require.NoError(t, ta.store.Articles.Create(context.Background(), article))
	return article
}

func strPtr(s string) *string { return &s }

func TestRoot(t *testing.T) {
	ta := setupTestApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, parseJSON(t, resp), "timestamp")
}

func TestHealth(t *testing.T) {
	ta := setupTestApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/health", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := parseJSON(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, map[string]interface{}{"gemini": false}, body["services"])
}

func TestMetrics(t *testing.T) {
	ta := setupTestApp(t)

	_, err := doRequest(ta.app, http.MethodGet, "/health", "", nil)
	require.NoError(t, err)

	resp, err := doRequest(ta.app, http.MethodGet, "/metrics", "", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "artikelin_http_requests_total")
}

func TestAPI_RequiresToken(t *testing.T) {
	ta := setupTestApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/api/jobs", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	code, _ := errorOf(t, resp)
	assert.Equal(t, "UNAUTHORIZED", code)
}

func TestUnknownRoute(t *testing.T) {
	ta := setupTestApp(t)

	resp, err := doRequest(ta.app, http.MethodGet, "/nope", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	code, _ := errorOf(t, resp)
	assert.Equal(t, "NOT_FOUND", code)
}

func TestCreateJob_Validation(t *testing.T) {
	ta := setupTestApp(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing keyword", `{"intent":"informational"}`, "Keyword and intent are required"},
		{"blank intent", `{"keyword":"kopi","intent":"  "}`, "Keyword and intent are required"},
		{"regenerate without slug", `{"jobType":"regenerate","keyword":"kopi","intent":"informational"}`, "Article slug is required for regenerate jobs"},
		{"malformed body", `{"keyword":`, "Invalid request body"},
		{"unknown job type", `{"jobType":"translate","keyword":"kopi","intent":"informational"}`, "Validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/jobs", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			code, message := errorOf(t, resp)
			assert.Equal(t, "VALIDATION_ERROR", code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestJobLifecycle_Generate(t *testing.T) {
	ta := setupTestApp(t)

	id := ta.createJob(t, `{"keyword":"Kopi Susu","intent":"informational"}`)

	resp := doAuthRequest(t, ta.app, http.MethodGet, "/api/jobs/"+id.String(), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending", parseJSON(t, resp)["status"])

	resp = doAuthRequest(t, ta.app, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var active []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&active))
	require.Len(t, active, 1)
	assert.Equal(t, id.String(), active[0]["id"])

	ta.spawner.RunAll()

	resp = doAuthRequest(t, ta.app, http.MethodGet, "/api/jobs/"+id.String(), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	job := parseJSON(t, resp)
	assert.Equal(t, "completed", job["status"])

	article, ok := job["article"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Panduan Lengkap Kopi Susu", article["title"])

	resp = doAuthRequest(t, ta.app, http.MethodGet, "/api/articles/"+article["slug"].(string), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), parseJSON(t, resp)["version"])
}

func TestGetJob_Errors(t *testing.T) {
	ta := setupTestApp(t)

	resp := doAuthRequest(t, ta.app, http.MethodGet, "/api/jobs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_, message := errorOf(t, resp)
	assert.Equal(t, "Invalid job ID", message)

	resp = doAuthRequest(t, ta.app, http.MethodGet, "/api/jobs/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, message = errorOf(t, resp)
	assert.Equal(t, "Job not found", message)
}

func TestCancelJob(t *testing.T) {
	ta := setupTestApp(t)
	ctx := context.Background()

	t.Run("pending job is cancelled", func(t *testing.T) {
		id := ta.createJob(t, `{"keyword":"kopi","intent":"informational"}`)

		resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/jobs/"+id.String()+"/cancel", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := parseJSON(t, resp)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "cancelled", body["status"])

		// the held execution finds the job cancelled and does nothing
		ta.spawner.RunAll()
		job, err := ta.store.Jobs.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusCancelled, job.Status)
		assert.Nil(t, job.ArticleID)
	})

	conflicts := []struct {
		name    string
		status  model.JobStatus
		message string
	}{
		{"processing", model.JobStatusProcessing, "Cannot cancel a job that is already processing"},
		{"completed", model.JobStatusCompleted, "Job is already finished"},
		{"failed", model.JobStatusFailed, "Job is already finished"},
		{"cancelled", model.JobStatusCancelled, "Job is already finished"},
	}
	for _, tt := range conflicts {
		t.Run(tt.name, func(t *testing.T) {
			id := ta.createJob(t, `{"keyword":"kopi","intent":"informational"}`)
			ok, err := ta.store.Jobs.Transition(ctx, id, model.JobStatusPending, tt.status, nil)
			require.NoError(t, err)
			require.True(t, ok)

			resp := doAuthRequest(t, ta.app, http.MethodDelete, "/api/jobs/"+id.String(), "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			code, message := errorOf(t, resp)
			assert.Equal(t, "INVALID_STATE", code)
			assert.Equal(t, tt.message, message)
		})
	}

	t.Run("unknown job", func(t *testing.T) {
		resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/jobs/"+uuid.NewString()+"/cancel", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUndo(t *testing.T) {
	ta := setupTestApp(t)

	structured, err := model.Snapshot{
		ContentHTML:     "<p>old</p>",
		Title:           "Kopi Lama",
		MetaDescription: "Meta lama",
		Tags:            []string{"lama"},
	}.Encode()
	require.NoError(t, err)

	t.Run("structured snapshot", func(t *testing.T) {
		ta.seedArticle(t, "kopi-structured", &structured)

		resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/articles/kopi-structured/undo", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := parseJSON(t, resp)
		assert.Equal(t, "All fields restored to previous version", body["message"])
		assert.Equal(t, "Kopi Lama", body["title"])
		assert.Equal(t, "<p>old</p>", body["contentHtml"])
		assert.Equal(t, []interface{}{"lama"}, body["tags"])
		assert.Equal(t, float64(2), body["version"])
	})

	t.Run("legacy snapshot", func(t *testing.T) {
		ta.seedArticle(t, "kopi-legacy", strPtr("<p>old</p>"))

		resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/articles/kopi-legacy/undo", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := parseJSON(t, resp)
		assert.Equal(t, "Content restored to previous version (legacy format, content only)", body["message"])
		assert.Equal(t, "Kopi Susu", body["title"])
		assert.Equal(t, "<p>old</p>", body["contentHtml"])
	})

	t.Run("identical legacy snapshot", func(t *testing.T) {
		ta.seedArticle(t, "kopi-same", strPtr("<p>current</p>"))

		resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/articles/kopi-same/undo", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		code, message := errorOf(t, resp)
		assert.Equal(t, "NO_OP", code)
		assert.Equal(t, "Previous version is identical to current content", message)
	})

	t.Run("no previous version", func(t *testing.T) {
		ta.seedArticle(t, "kopi-fresh", nil)

		resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/articles/kopi-fresh/undo", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		code, message := errorOf(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", code)
		assert.Equal(t, "No previous version available to undo", message)
	})

	t.Run("unknown article", func(t *testing.T) {
		resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/articles/missing/undo", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_, message := errorOf(t, resp)
		assert.Equal(t, "Article not found", message)
	})
}

func TestRegenerateThenUndo(t *testing.T) {
	ta := setupTestApp(t)
	ta.seedArticle(t, "kopi-susu", nil)

	ta.createJob(t, `{"jobType":"regenerate","keyword":"Kopi Susu","intent":"informational","articleSlug":"kopi-susu"}`)
	ta.spawner.RunAll()

	resp := doAuthRequest(t, ta.app, http.MethodGet, "/api/articles/kopi-susu", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	regenerated := parseJSON(t, resp)
	assert.Equal(t, "Panduan Lengkap Kopi Susu", regenerated["title"])
	assert.Equal(t, float64(2), regenerated["version"])

	resp = doAuthRequest(t, ta.app, http.MethodPost, "/api/articles/kopi-susu/undo", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	restored := parseJSON(t, resp)
	assert.Equal(t, "Kopi Susu", restored["title"])
	assert.Equal(t, "<p>current</p>", restored["contentHtml"])
	assert.Equal(t, "structured", restored["restoredFormat"])
}

func TestUpdateArticle(t *testing.T) {
	ta := setupTestApp(t)
	ta.seedArticle(t, "kopi-susu", nil)

	resp := doAuthRequest(t, ta.app, http.MethodPut, "/api/articles/kopi-susu",
		`{"title":"Kopi Baru","contentHtml":"<p>baru</p>","tags":"kopi, susu","version":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := parseJSON(t, resp)
	assert.Equal(t, "Kopi Baru", body["title"])
	assert.Equal(t, []interface{}{"kopi", "susu"}, body["tags"])

	// version 1 is stale now
	resp = doAuthRequest(t, ta.app, http.MethodPut, "/api/articles/kopi-susu",
		`{"title":"Kopi Lagi","contentHtml":"<p>lagi</p>","version":1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	code, _ := errorOf(t, resp)
	assert.Equal(t, "CONFLICT", code)

	resp = doAuthRequest(t, ta.app, http.MethodPut, "/api/articles/kopi-susu", `{"title":"Kopi"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublishAndDeleteArticle(t *testing.T) {
	ta := setupTestApp(t)
	ta.seedArticle(t, "kopi-susu", nil)

	resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/articles/kopi-susu/publish", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Article published successfully", parseJSON(t, resp)["message"])

	resp = doAuthRequest(t, ta.app, http.MethodDelete, "/api/articles/kopi-susu", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAuthRequest(t, ta.app, http.MethodGet, "/api/articles/kopi-susu", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecordView(t *testing.T) {
	ta := setupTestApp(t)
	article := ta.seedArticle(t, "kopi-susu", nil)

	// public pages report views without a token
	resp, err := doRequest(ta.app, http.MethodPost, "/api/analytics/view", `{"slug":"kopi-susu"}`, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, parseJSON(t, resp)["success"])

	resp, err = doRequest(ta.app, http.MethodPost, "/api/analytics/view", fmt.Sprintf(`{"id":%d}`, article.ID), nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got, err := ta.store.Articles.GetByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing id and slug", `{}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown slug", `{"slug":"tidak-ada"}`, http.StatusNotFound, "NOT_FOUND"},
		{"malformed body", `{"id":`, http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := doRequest(ta.app, http.MethodPost, "/api/analytics/view", tt.body, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			code, _ := errorOf(t, resp)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestDashboardStats(t *testing.T) {
	ta := setupTestApp(t)
	ta.seedArticle(t, "kopi-susu", nil)
	ta.seedArticle(t, "teh-tarik", nil)
	require.NoError(t, ta.store.Keywords.CreateBatch(context.Background(), []model.Keyword{
		{Term: "kopi susu", SeedKeyword: "kopi", Intent: model.IntentInformational, Status: model.KeywordStatusNew},
	}))
	for i := 0; i < 2; i++ {
		resp, err := doRequest(ta.app, http.MethodPost, "/api/analytics/view", `{"slug":"teh-tarik"}`, nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := doRequest(ta.app, http.MethodGet, "/api/dashboard/stats", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doAuthRequest(t, ta.app, http.MethodGet, "/api/dashboard/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats model.DashboardStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.EqualValues(t, 2, stats.TotalArticles)
	assert.EqualValues(t, 1, stats.TotalKeywords)
	assert.EqualValues(t, 1, stats.PendingKeywords)
	assert.EqualValues(t, 2, stats.TotalViews)
	require.Len(t, stats.TopViewedArticles, 2)
	assert.Equal(t, "teh-tarik", stats.TopViewedArticles[0].Slug)
	assert.Equal(t, 2, stats.TopViewedArticles[0].Views)
}

func TestKeywords(t *testing.T) {
	ta := setupTestApp(t)

	resp := doAuthRequest(t, ta.app, http.MethodPost, "/api/keywords",
		`{"keywordsList":[{"term":"kopi susu","intent":"informational"},{"term":"beli kopi","seedKeyword":"kopi","intent":"transactional"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := parseJSON(t, resp)
	assert.Equal(t, float64(2), body["count"])

	resp = doAuthRequest(t, ta.app, http.MethodGet, "/api/keywords", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var keywords []model.Keyword
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&keywords))
	require.Len(t, keywords, 2)

	resp = doAuthRequest(t, ta.app, http.MethodDelete, fmt.Sprintf("/api/keywords/%d", keywords[0].ID), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAuthRequest(t, ta.app, http.MethodDelete, fmt.Sprintf("/api/keywords/%d", keywords[0].ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doAuthRequest(t, ta.app, http.MethodDelete, "/api/keywords/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doAuthRequest(t, ta.app, http.MethodPost, "/api/keywords", `{"keywordsList":[{"term":"kopi","intent":"navigational"}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettings(t *testing.T) {
	ta := setupTestApp(t)

	resp := doAuthRequest(t, ta.app, http.MethodGet, "/api/settings/productKnowledge", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := parseJSON(t, resp)
	assert.Equal(t, "productKnowledge", body["key"])
	assert.Equal(t, "", body["value"])

	resp = doAuthRequest(t, ta.app, http.MethodPut, "/api/settings/productKnowledge", `{"value":"Kopi Nusantara"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doAuthRequest(t, ta.app, http.MethodGet, "/api/settings/productKnowledge", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kopi Nusantara", parseJSON(t, resp)["value"])

	resp = doAuthRequest(t, ta.app, http.MethodPut, "/api/settings/productKnowledge", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJobStream_RequiresUpgrade(t *testing.T) {
	ta := setupTestApp(t)
	id := ta.createJob(t, `{"keyword":"kopi","intent":"informational"}`)

	resp := doAuthRequest(t, ta.app, http.MethodGet, "/ws/jobs/"+id.String(), "")
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)

	resp, err := doRequest(ta.app, http.MethodGet, "/ws/jobs/"+id.String(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
