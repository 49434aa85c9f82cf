package polyblog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/polyblog/polyblog"
	"github.com/polyblog/polyblog/content"
)

func TestModuleMemoryDriverServesSeededContent(t *testing.T) {
	ctx := context.Background()

	module, err := polyblog.New(ctx, polyblog.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})

	if module.DB() != nil {
		t.Fatal("memory driver should not open a database")
	}

	if err := module.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// Seeding twice must not duplicate records.
	if err := module.Seed(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	records, err := module.Contents().GetAllPublished(ctx, "")
	if err != nil {
		t.Fatalf("get all published: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 seeded posts, got %d", len(records))
	}
	if records[0].Slug != "getting-started-with-react" {
		t.Fatalf("expected newest post first, got %q", records[0].Slug)
	}
	if len(records[0].Translations) != 2 {
		t.Fatalf("expected zh and en translations, got %d", len(records[0].Translations))
	}
}

func TestModuleSQLiteDriverAppliesMigrations(t *testing.T) {
	ctx := context.Background()

	cfg := polyblog.DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file::memory:?cache=shared"

	module, err := polyblog.New(ctx, cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})

	if module.DB() == nil {
		t.Fatal("expected an open database handle")
	}

	if err := module.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	record, err := module.Contents().GetBySlug(ctx, "typescript-best-practices")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if !record.HasTranslation(content.LanguageChinese) || !record.HasTranslation(content.LanguageEnglish) {
		t.Fatalf("expected both seeded translations, got %d", len(record.Translations))
	}
}

func TestModuleSQLiteDriverWithCache(t *testing.T) {
	ctx := context.Background()

	cfg := polyblog.DefaultConfig()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file::memory:?cache=shared"
	cfg.Cache.Enabled = true

	module, err := polyblog.New(ctx, cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() {
		_ = module.Close()
	})

	if err := module.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Same read twice, second served from cache.
	for i := 0; i < 2; i++ {
		if _, err := module.Contents().GetBySlug(ctx, "getting-started-with-react"); err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
	}
}

func TestModuleRejectsUnknownDriver(t *testing.T) {
	cfg := polyblog.DefaultConfig()
	cfg.Storage.Driver = "bolt"

	if _, err := polyblog.New(context.Background(), cfg); err == nil {
		t.Fatal("expected an error for unknown driver")
	}
}

func TestModuleWithStoreBypassesDriver(t *testing.T) {
	cfg := polyblog.DefaultConfig()
	cfg.Storage.Driver = "bolt"

	store := content.NewMemoryStore()
	module, err := polyblog.New(context.Background(), cfg, polyblog.WithStore(store))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if module.Store() != content.Store(store) {
		t.Fatal("expected injected store")
	}
}

func TestModuleHandlerEndToEnd(t *testing.T) {
	ctx := context.Background()

	module, err := polyblog.New(ctx, polyblog.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if err := module.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	server := httptest.NewServer(module.Handler())
	t.Cleanup(server.Close)

	res, err := http.Get(server.URL + "/api/contents?published=true")
	if err != nil {
		t.Fatalf("list request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", res.StatusCode)
	}
	var records []json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 published posts, got %d", len(records))
	}

	// Login with the default admin identity and create a post over the API.
	loginBody := bytes.NewBufferString(`{"email":"admin@example.com","password":"password"}`)
	res, err = http.Post(server.URL+"/api/auth/login", "application/json", loginBody)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", res.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	createBody := bytes.NewBufferString(`{"slug":"from-the-api","defaultLanguage":"en","published":true}`)
	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/contents", createBody)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Token)

	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", res.StatusCode)
	}

	if _, err := module.Contents().GetBySlug(ctx, "from-the-api"); err != nil {
		t.Fatalf("expected API-created content to be readable: %v", err)
	}
}
