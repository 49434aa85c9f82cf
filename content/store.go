package content

import (
	"context"

	"github.com/google/uuid"
)

// Store is the storage collaborator behind the content service. It holds raw
// Content and ContentTranslation records and knows nothing about publish
// policy, pagination, or ranking.
//
// Contract:
//   - Read-by-key operations return *NotFoundError when a record is absent.
//   - CreateContent fails with *DuplicateSlugError when the slug is taken;
//     CreateTranslation fails with *DuplicateTranslationError when the
//     (content, language) pair is taken. Both checks are atomic with the
//     write.
//   - GetContent, GetContentBySlug, and ListContents return records with all
//     translations attached, in creation order.
//   - DeleteContent cascades to the record's translations.
//   - Returned records are detached: mutating them does not change the store.
type Store interface {
	CreateContent(ctx context.Context, record *Content) (*Content, error)
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	GetContentBySlug(ctx context.Context, slug string) (*Content, error)
	ListContents(ctx context.Context) ([]*Content, error)
	UpdateContent(ctx context.Context, record *Content) (*Content, error)
	DeleteContent(ctx context.Context, id uuid.UUID) (bool, error)

	CreateTranslation(ctx context.Context, record *ContentTranslation) (*ContentTranslation, error)
	GetTranslation(ctx context.Context, contentID uuid.UUID, language Language) (*ContentTranslation, error)
	GetTranslationByID(ctx context.Context, id uuid.UUID) (*ContentTranslation, error)
	UpdateTranslation(ctx context.Context, record *ContentTranslation) (*ContentTranslation, error)
	DeleteTranslation(ctx context.Context, id uuid.UUID) (bool, error)
}
