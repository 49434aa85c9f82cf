package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore persists content and translations through bun. Reads preload
// translations in creation order so callers always see assembled records.
type BunStore struct {
	db           *bun.DB
	contents     repository.Repository[*Content]
	translations repository.Repository[*ContentTranslation]
}

var _ Store = (*BunStore)(nil)

// NewBunStore constructs a BunStore without caching.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache constructs a BunStore with optional read-through
// caching. Passing nil for either cache argument disables caching.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStore {
	return &BunStore{
		db:           db,
		contents:     wrapWithCache(newContentRepository(db), cacheService, keySerializer),
		translations: wrapWithCache(newTranslationRepository(db), cacheService, keySerializer),
	}
}

func newContentRepository(db *bun.DB) repository.Repository[*Content] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Content]{
		NewRecord: func() *Content { return &Content{} },
		GetID: func(c *Content) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Content, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(c *Content) string {
			return c.Slug
		},
	})
}

func newTranslationRepository(db *bun.DB) repository.Repository[*ContentTranslation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentTranslation]{
		NewRecord: func() *ContentTranslation { return &ContentTranslation{} },
		GetID: func(tr *ContentTranslation) uuid.UUID {
			return tr.ID
		},
		SetID: func(tr *ContentTranslation, id uuid.UUID) {
			tr.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(tr *ContentTranslation) string {
			return tr.ID.String()
		},
	})
}

func (s *BunStore) CreateContent(ctx context.Context, record *Content) (*Content, error) {
	if _, err := s.GetContentBySlug(ctx, record.Slug); err == nil {
		return nil, &DuplicateSlugError{Slug: record.Slug}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created, err := s.contents.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &DuplicateSlugError{Slug: record.Slug}
		}
		return nil, storageErr("create content", err)
	}
	if created.Translations == nil {
		created.Translations = []*ContentTranslation{}
	}
	return created, nil
}

func (s *BunStore) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	records, _, err := s.contents.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return preloadTranslations(q).Where("?TableAlias.id = ?", id)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content", id.String())
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content", Key: id.String()}
	}
	return normalizeContent(records[0]), nil
}

func (s *BunStore) GetContentBySlug(ctx context.Context, slug string) (*Content, error) {
	records, _, err := s.contents.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return preloadTranslations(q).Where("?TableAlias.slug = ?", slug)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "content", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "content", Key: slug}
	}
	return normalizeContent(records[0]), nil
}

func (s *BunStore) ListContents(ctx context.Context) ([]*Content, error) {
	records, _, err := s.contents.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return preloadTranslations(q).OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
		}),
	)
	if err != nil {
		return nil, storageErr("list contents", err)
	}
	for i, rec := range records {
		records[i] = normalizeContent(rec)
	}
	return records, nil
}

func (s *BunStore) UpdateContent(ctx context.Context, record *Content) (*Content, error) {
	if _, err := s.GetContent(ctx, record.ID); err != nil {
		return nil, err
	}

	_, err := s.contents.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"owner_id",
			"slug",
			"default_language",
			"published",
			"published_at",
			"updated_at",
		),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &DuplicateSlugError{Slug: record.Slug}
		}
		return nil, storageErr("update content", err)
	}
	return s.GetContent(ctx, record.ID)
}

func (s *BunStore) DeleteContent(ctx context.Context, id uuid.UUID) (bool, error) {
	existed := false
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ContentTranslation)(nil)).
			Where("?TableAlias.content_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete content translations: %w", err)
		}

		result, err := tx.NewDelete().
			Model((*Content)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("delete content: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("content delete rows affected: %w", err)
		}
		existed = affected > 0
		return nil
	})
	if err != nil {
		return false, storageErr("delete content", err)
	}
	return existed, nil
}

func (s *BunStore) CreateTranslation(ctx context.Context, record *ContentTranslation) (*ContentTranslation, error) {
	if _, err := s.GetContent(ctx, record.ContentID); err != nil {
		return nil, err
	}
	if _, err := s.GetTranslation(ctx, record.ContentID, record.Language); err == nil {
		return nil, &DuplicateTranslationError{ContentID: record.ContentID, Language: record.Language}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created, err := s.translations.Create(ctx, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &DuplicateTranslationError{ContentID: record.ContentID, Language: record.Language}
		}
		return nil, storageErr("create translation", err)
	}
	return created, nil
}

func (s *BunStore) GetTranslation(ctx context.Context, contentID uuid.UUID, language Language) (*ContentTranslation, error) {
	key := contentID.String() + "/" + language.String()
	records, _, err := s.translations.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.content_id = ?", contentID).
				Where("?TableAlias.language = ?", language)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "translation", key)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "translation", Key: key}
	}
	return records[0], nil
}

func (s *BunStore) GetTranslationByID(ctx context.Context, id uuid.UUID) (*ContentTranslation, error) {
	record, err := s.translations.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "translation", id.String())
	}
	return record, nil
}

func (s *BunStore) UpdateTranslation(ctx context.Context, record *ContentTranslation) (*ContentTranslation, error) {
	if _, err := s.GetTranslationByID(ctx, record.ID); err != nil {
		return nil, err
	}

	updated, err := s.translations.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"body",
			"seo_title",
			"seo_description",
			"seo_keywords",
			"seo_og_image",
			"updated_at",
		),
	)
	if err != nil {
		return nil, storageErr("update translation", err)
	}
	return updated, nil
}

func (s *BunStore) DeleteTranslation(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := s.db.NewDelete().
		Model((*ContentTranslation)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, storageErr("delete translation", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, storageErr("delete translation", err)
	}
	return affected > 0, nil
}

func preloadTranslations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("Translations", func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.OrderExpr("created_at ASC, id ASC")
	})
}

func normalizeContent(record *Content) *Content {
	if record != nil && record.Translations == nil {
		record.Translations = []*ContentTranslation{}
	}
	return record
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return storageErr(resource+" lookup", err)
}

// isUniqueViolation sniffs for unique constraint failures across the sqlite
// and postgres drivers. It backstops the pre-checks so concurrent writers
// racing past them still surface a duplicate instead of a raw driver error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "23505")
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
