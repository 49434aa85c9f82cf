package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/polyblog/polyblog/content"
	"github.com/polyblog/polyblog/internal/auth"
	"github.com/polyblog/polyblog/internal/httpapi"
	"github.com/polyblog/polyblog/internal/markdown"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "password"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	svc := content.NewService(content.NewMemoryStore())
	manager := auth.NewManager(auth.Config{
		Secret:        "integration-test-secret-key-0123456789",
		AdminEmail:    testEmail,
		AdminPassword: testPassword,
		TokenExpiry:   time.Hour,
	})
	renderer := markdown.NewRenderer(markdown.Options{})

	api := httpapi.New(svc, manager, renderer, nil)
	mux := http.NewServeMux()
	api.Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func login(t *testing.T, server *httptest.Server) string {
	t.Helper()

	status, body := doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    testEmail,
		"password": testPassword,
	})
	if status != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", status, body)
	}

	var response struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if response.Token == "" {
		t.Fatal("expected a token")
	}
	return response.Token
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(res.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, buf.Bytes()
}

func createContent(t *testing.T, server *httptest.Server, token, slug string, published bool) uuid.UUID {
	t.Helper()

	status, body := doJSON(t, server, http.MethodPost, "/api/contents", token, map[string]any{
		"userId":          uuid.New().String(),
		"slug":            slug,
		"defaultLanguage": "en",
		"published":       published,
	})
	if status != http.StatusCreated {
		t.Fatalf("create content status = %d, body = %s", status, body)
	}

	var record struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.Unmarshal(body, &record); err != nil {
		t.Fatalf("decode content: %v", err)
	}
	return record.ID
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodGet, "/api/healthz", "", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server := newTestServer(t)

	status, body := doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    testEmail,
		"password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, body = %s", status, body)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, server, http.MethodPost, "/api/contents", "", map[string]any{
		"slug": "needs-auth",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", status)
	}

	status, _ = doJSON(t, server, http.MethodPost, "/api/contents", "not-a-jwt", map[string]any{
		"slug": "needs-auth",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d", status)
	}
}

func TestContentLifecycle(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)

	id := createContent(t, server, token, "launch-post", false)

	// Read back by ID and by slug.
	status, body := doJSON(t, server, http.MethodGet, "/api/contents/"+id.String(), "", nil)
	if status != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", status, body)
	}

	status, body = doJSON(t, server, http.MethodGet, "/api/contents/slug/launch-post", "", nil)
	if status != http.StatusOK {
		t.Fatalf("get by slug status = %d, body = %s", status, body)
	}

	// Publish via update.
	status, body = doJSON(t, server, http.MethodPut, "/api/contents/"+id.String(), token, map[string]any{
		"published": true,
	})
	if status != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", status, body)
	}
	var updated struct {
		Published   bool    `json:"published"`
		PublishedAt *string `json:"publishedAt"`
	}
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated content: %v", err)
	}
	if !updated.Published || updated.PublishedAt == nil {
		t.Fatalf("expected published with timestamp, got %s", body)
	}

	// Delete, then confirm 404 behavior.
	status, body = doJSON(t, server, http.MethodDelete, "/api/contents/"+id.String(), token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete status = %d, body = %s", status, body)
	}
	status, _ = doJSON(t, server, http.MethodDelete, "/api/contents/"+id.String(), token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("second delete status = %d", status)
	}
	status, _ = doJSON(t, server, http.MethodGet, "/api/contents/"+id.String(), "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", status)
	}
}

func TestDuplicateSlugReturnsBadRequest(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)

	createContent(t, server, token, "taken", false)

	status, body := doJSON(t, server, http.MethodPost, "/api/contents", token, map[string]any{
		"userId":          uuid.New().String(),
		"slug":            "taken",
		"defaultLanguage": "en",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", status, body)
	}
}

func TestContentListShapes(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)

	for i := 0; i < 3; i++ {
		createContent(t, server, token, fmt.Sprintf("published-%d", i), true)
	}
	createContent(t, server, token, "draft-post", false)

	// Published list without paging returns a bare array.
	status, body := doJSON(t, server, http.MethodGet, "/api/contents?published=true", "", nil)
	if status != http.StatusOK {
		t.Fatalf("published list status = %d, body = %s", status, body)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		t.Fatalf("decode published list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 published records, got %d", len(records))
	}

	// Paginated envelope.
	status, body = doJSON(t, server, http.MethodGet, "/api/contents?page=1&pageSize=2", "", nil)
	if status != http.StatusOK {
		t.Fatalf("paginated status = %d, body = %s", status, body)
	}
	var page struct {
		Contents []json.RawMessage `json:"contents"`
		Total    int               `json:"total"`
		Page     int               `json:"page"`
		PageSize int               `json:"pageSize"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 3 || len(page.Contents) != 2 || page.Page != 1 || page.PageSize != 2 {
		t.Fatalf("unexpected envelope: %s", body)
	}

	// Invalid page is a validation failure.
	status, _ = doJSON(t, server, http.MethodGet, "/api/contents?page=0&pageSize=2", "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("page=0 status = %d", status)
	}
}

func TestTranslationLifecycle(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)
	id := createContent(t, server, token, "i18n-post", true)

	base := "/api/contents/" + id.String() + "/translations"

	status, body := doJSON(t, server, http.MethodPost, base, token, map[string]any{
		"language": "en",
		"title":    "Release Notes",
		"content":  "# Release Notes\n\nFirst cut.",
		"seoMetadata": map[string]any{
			"title":    "Release Notes",
			"keywords": []string{"release", "notes"},
		},
	})
	if status != http.StatusCreated {
		t.Fatalf("create translation status = %d, body = %s", status, body)
	}

	// Duplicate language is rejected.
	status, _ = doJSON(t, server, http.MethodPost, base, token, map[string]any{
		"language": "en",
		"title":    "Again",
		"content":  "body",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate translation status = %d", status)
	}

	status, body = doJSON(t, server, http.MethodGet, base+"/en", "", nil)
	if status != http.StatusOK {
		t.Fatalf("get translation status = %d, body = %s", status, body)
	}
	var record struct {
		Title string `json:"title"`
		Body  string `json:"content"`
	}
	if err := json.Unmarshal(body, &record); err != nil {
		t.Fatalf("decode translation: %v", err)
	}
	if record.Title != "Release Notes" {
		t.Fatalf("unexpected translation: %s", body)
	}

	status, body = doJSON(t, server, http.MethodPut, base+"/en", token, map[string]any{
		"title": "Release Notes v2",
	})
	if status != http.StatusOK {
		t.Fatalf("update translation status = %d, body = %s", status, body)
	}
	if !strings.Contains(string(body), "Release Notes v2") {
		t.Fatalf("expected updated title, got %s", body)
	}

	status, body = doJSON(t, server, http.MethodGet, base+"/en/html", "", nil)
	if status != http.StatusOK {
		t.Fatalf("html status = %d, body = %s", status, body)
	}
	var rendered struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal(body, &rendered); err != nil {
		t.Fatalf("decode html response: %v", err)
	}
	if !strings.Contains(rendered.HTML, "<h1") {
		t.Fatalf("expected rendered heading, got %q", rendered.HTML)
	}

	status, _ = doJSON(t, server, http.MethodDelete, base+"/en", token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete translation status = %d", status)
	}
	status, _ = doJSON(t, server, http.MethodGet, base+"/en", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", status)
	}
}

func TestRelatedEndpoint(t *testing.T) {
	server := newTestServer(t)
	token := login(t, server)

	ids := make(map[string]uuid.UUID)
	for slug, title := range map[string]string{
		"react-basics":   "React Basics Guide",
		"react-tutorial": "React Tutorial",
		"vue-guide":      "Vue Guide",
	} {
		id := createContent(t, server, token, slug, true)
		ids[slug] = id
		status, body := doJSON(t, server, http.MethodPost, "/api/contents/"+id.String()+"/translations", token, map[string]any{
			"language": "en",
			"title":    title,
			"content":  "body",
		})
		if status != http.StatusCreated {
			t.Fatalf("create translation for %s: status = %d, body = %s", slug, status, body)
		}
	}

	status, body := doJSON(t, server, http.MethodGet, "/api/contents/"+ids["react-basics"].String()+"/related?language=en", "", nil)
	if status != http.StatusOK {
		t.Fatalf("related status = %d, body = %s", status, body)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		t.Fatalf("decode related: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 related records, got %d", len(records))
	}
}

func TestInvalidUUIDIsBadRequest(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, server, http.MethodGet, "/api/contents/not-a-uuid", "", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d", status)
	}
}
