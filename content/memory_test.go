package content_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/polyblog/polyblog/content"
)

func storeContent(t *testing.T, store *content.MemoryStore, slug string) *content.Content {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record, err := store.CreateContent(context.Background(), &content.Content{
		ID:              uuid.New(),
		OwnerID:         uuid.New(),
		Slug:            slug,
		DefaultLanguage: content.LanguageEnglish,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("create content %q: %v", slug, err)
	}
	return record
}

func storeTranslation(t *testing.T, store *content.MemoryStore, contentID uuid.UUID, language content.Language, title string) *content.ContentTranslation {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record, err := store.CreateTranslation(context.Background(), &content.ContentTranslation{
		ID:        uuid.New(),
		ContentID: contentID,
		Language:  language,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("create translation %q: %v", title, err)
	}
	return record
}

func TestMemoryStoreReturnsDetachedCopies(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()

	record := storeContent(t, store, "isolated")
	storeTranslation(t, store, record.ID, content.LanguageEnglish, "Original")

	fetched, err := store.GetContent(ctx, record.ID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}

	// Mutating the returned record must not leak into the store.
	fetched.Slug = "tampered"
	fetched.Translations[0].Title = "Tampered"

	again, err := store.GetContent(ctx, record.ID)
	if err != nil {
		t.Fatalf("get content again: %v", err)
	}
	if again.Slug != "isolated" {
		t.Fatalf("store record mutated through returned copy: %q", again.Slug)
	}
	if again.Translations[0].Title != "Original" {
		t.Fatalf("store translation mutated through returned copy: %q", again.Translations[0].Title)
	}
}

func TestMemoryStoreTranslationCreationOrder(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()

	record := storeContent(t, store, "ordered")
	storeTranslation(t, store, record.ID, content.LanguageChinese, "first")
	storeTranslation(t, store, record.ID, content.LanguageEnglish, "second")
	storeTranslation(t, store, record.ID, content.LanguageJapanese, "third")

	fetched, err := store.GetContent(ctx, record.ID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	want := []content.Language{content.LanguageChinese, content.LanguageEnglish, content.LanguageJapanese}
	if len(fetched.Translations) != len(want) {
		t.Fatalf("expected %d translations, got %d", len(want), len(fetched.Translations))
	}
	for i, lang := range want {
		if fetched.Translations[i].Language != lang {
			t.Fatalf("position %d: expected %s, got %s", i, lang, fetched.Translations[i].Language)
		}
	}
}

func TestMemoryStoreSlugIndexFollowsUpdates(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()

	record := storeContent(t, store, "before")
	record.Slug = "after"
	if _, err := store.UpdateContent(ctx, record); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := store.GetContentBySlug(ctx, "after"); err != nil {
		t.Fatalf("lookup by new slug: %v", err)
	}
	if _, err := store.GetContentBySlug(ctx, "before"); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected old slug released, got %v", err)
	}

	// Released slug can be claimed by another record.
	storeContent(t, store, "before")
}

func TestMemoryStoreCascadeDelete(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()

	record := storeContent(t, store, "cascade")
	tr := storeTranslation(t, store, record.ID, content.LanguageEnglish, "Title")

	deleted, err := store.DeleteContent(ctx, record.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}

	if _, err := store.GetTranslationByID(ctx, tr.ID); !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected translation removed, got %v", err)
	}

	// Slug is free again after delete.
	storeContent(t, store, "cascade")
}

func TestMemoryStoreDeleteTranslationLeavesContent(t *testing.T) {
	store := content.NewMemoryStore()
	ctx := context.Background()

	record := storeContent(t, store, "post")
	en := storeTranslation(t, store, record.ID, content.LanguageEnglish, "English")
	storeTranslation(t, store, record.ID, content.LanguageChinese, "中文")

	deleted, err := store.DeleteTranslation(ctx, en.ID)
	if err != nil {
		t.Fatalf("delete translation: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}

	fetched, err := store.GetContent(ctx, record.ID)
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	if len(fetched.Translations) != 1 || fetched.Translations[0].Language != content.LanguageChinese {
		t.Fatalf("expected only the Chinese translation to remain, got %v", fetched.Translations)
	}
}
