package content

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Service exposes the translation-aware query surface over a Store. All
// policy lives here: publish filtering, language filtering, ordering,
// pagination, the publish-timestamp lifecycle, and related-content ranking.
// The store underneath only does raw CRUD.
type Service interface {
	GetAllPublished(ctx context.Context, language Language) ([]*Content, error)
	GetPaginated(ctx context.Context, page, pageSize int, language Language) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Content, error)
	GetBySlug(ctx context.Context, slug string) (*Content, error)
	Create(ctx context.Context, req CreateContentRequest) (*Content, error)
	Update(ctx context.Context, req UpdateContentRequest) (*Content, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	GetTranslation(ctx context.Context, contentID uuid.UUID, language Language) (*ContentTranslation, error)
	CreateTranslation(ctx context.Context, req CreateTranslationRequest) (*ContentTranslation, error)
	UpdateTranslation(ctx context.Context, req UpdateTranslationRequest) (*ContentTranslation, error)
	DeleteTranslation(ctx context.Context, id uuid.UUID) (bool, error)

	GetRelated(ctx context.Context, contentID uuid.UUID, language Language, limit int) ([]*Content, error)
}

// CreateContentRequest captures the information required to create content.
// Content is created with zero translations; translations are added in a
// second step.
type CreateContentRequest struct {
	OwnerID         uuid.UUID
	Slug            string
	DefaultLanguage Language
	Published       bool
}

// UpdateContentRequest captures a partial update. Nil fields are untouched.
type UpdateContentRequest struct {
	ID              uuid.UUID
	Slug            *string
	DefaultLanguage *Language
	Published       *bool
}

// CreateTranslationRequest captures the payload for a new translation.
type CreateTranslationRequest struct {
	ContentID uuid.UUID
	Language  Language
	Title     string
	Body      string
	SEO       SEOMetadata
}

// UpdateTranslationRequest captures a partial translation update. Nil fields
// are untouched; SEO merges field-by-field.
type UpdateTranslationRequest struct {
	ID    uuid.UUID
	Title *string
	Body  *string
	SEO   *SEOMetadataPatch
}

// SEOMetadataPatch is a field-level patch over SEOMetadata. A nil field keeps
// the stored value; Keywords replaces the whole list when non-nil.
type SEOMetadataPatch struct {
	Title       *string
	Description *string
	Keywords    KeywordList
	OGImage     *string
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// DefaultRelatedLimit is used when GetRelated receives a non-positive limit.
const DefaultRelatedLimit = 3

type service struct {
	store Store
	now   func() time.Time
	id    IDGenerator
}

// NewService constructs a content service over the supplied store.
func NewService(store Store, opts ...ServiceOption) Service {
	s := &service{
		store: store,
		now:   time.Now,
		id:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllPublished returns published content, newest publish first. When a
// language is given, only content carrying a translation in that language
// qualifies; qualifying records still carry all their translations.
func (s *service) GetAllPublished(ctx context.Context, language Language) ([]*Content, error) {
	if language != "" && !language.Valid() {
		return nil, newValidationError(ErrUnknownLanguage)
	}
	return s.publishedSet(ctx, language)
}

// GetPaginated pages over the same filtered set as GetAllPublished. Total
// counts the whole filtered set; a page past the end yields an empty slice.
func (s *service) GetPaginated(ctx context.Context, page, pageSize int, language Language) (*Page, error) {
	if page < 1 || pageSize < 1 {
		return nil, newValidationError(ErrPageOutOfRange)
	}
	if language != "" && !language.Valid() {
		return nil, newValidationError(ErrUnknownLanguage)
	}

	filtered, err := s.publishedSet(ctx, language)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	slice := []*Content{}
	if offset < len(filtered) {
		end := offset + pageSize
		if end > len(filtered) {
			end = len(filtered)
		}
		slice = filtered[offset:end]
	}

	return &Page{
		Contents: slice,
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetByID fetches one record regardless of publish state.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Content, error) {
	return s.store.GetContent(ctx, id)
}

// GetBySlug fetches one record by slug regardless of publish state.
func (s *service) GetBySlug(ctx context.Context, slug string) (*Content, error) {
	return s.store.GetContentBySlug(ctx, strings.TrimSpace(slug))
}

// Create inserts a new content record. PublishedAt is stamped exactly when
// the record is created already-published.
func (s *service) Create(ctx context.Context, req CreateContentRequest) (*Content, error) {
	slugValue := strings.TrimSpace(req.Slug)
	if err := (validation.Errors{
		"slug":            validateSlug(slugValue),
		"defaultLanguage": validateLanguage(req.DefaultLanguage),
	}).Filter(); err != nil {
		return nil, newValidationError(err)
	}

	if err := s.ensureSlugFree(ctx, slugValue, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.now()
	record := &Content{
		ID:              s.id(),
		OwnerID:         req.OwnerID,
		Slug:            slugValue,
		DefaultLanguage: req.DefaultLanguage,
		Published:       req.Published,
		CreatedAt:       now,
		UpdatedAt:       now,
		Translations:    []*ContentTranslation{},
	}
	if req.Published {
		at := now
		record.PublishedAt = &at
	}

	return s.store.CreateContent(ctx, record)
}

// Update applies a partial update. The publish timestamp follows the stored
// publish flag: a false→true transition stamps it, true→false clears it, and
// an unchanged flag leaves it alone.
func (s *service) Update(ctx context.Context, req UpdateContentRequest) (*Content, error) {
	record, err := s.store.GetContent(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if req.Slug != nil {
		slugValue := strings.TrimSpace(*req.Slug)
		if err := validateSlug(slugValue); err != nil {
			return nil, newValidationError(err)
		}
		if slugValue != record.Slug {
			if err := s.ensureSlugFree(ctx, slugValue, record.ID); err != nil {
				return nil, err
			}
			record.Slug = slugValue
		}
	}

	if req.DefaultLanguage != nil {
		if err := validateLanguage(*req.DefaultLanguage); err != nil {
			return nil, newValidationError(err)
		}
		record.DefaultLanguage = *req.DefaultLanguage
	}

	if req.Published != nil && *req.Published != record.Published {
		record.Published = *req.Published
		if *req.Published {
			at := now
			record.PublishedAt = &at
		} else {
			record.PublishedAt = nil
		}
	}

	record.UpdatedAt = now
	return s.store.UpdateContent(ctx, record)
}

// Delete removes a record and all its translations. It reports whether a
// record existed.
func (s *service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.DeleteContent(ctx, id)
}

// GetTranslation resolves one translation by (content, language).
func (s *service) GetTranslation(ctx context.Context, contentID uuid.UUID, language Language) (*ContentTranslation, error) {
	if !language.Valid() {
		return nil, newValidationError(ErrUnknownLanguage)
	}
	return s.store.GetTranslation(ctx, contentID, language)
}

// CreateTranslation adds a language rendering to an existing content record.
// It does not bump the owning Content's UpdatedAt: only direct content field
// writes refresh that stamp.
func (s *service) CreateTranslation(ctx context.Context, req CreateTranslationRequest) (*ContentTranslation, error) {
	if err := (validation.Errors{
		"language": validateLanguage(req.Language),
		"title":    validation.Validate(req.Title, validation.Required),
		"keywords": validateKeywords(req.SEO.Keywords),
	}).Filter(); err != nil {
		return nil, newValidationError(err)
	}

	if _, err := s.store.GetContent(ctx, req.ContentID); err != nil {
		return nil, err
	}

	if _, err := s.store.GetTranslation(ctx, req.ContentID, req.Language); err == nil {
		return nil, &DuplicateTranslationError{ContentID: req.ContentID, Language: req.Language}
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now()
	record := &ContentTranslation{
		ID:        s.id(),
		ContentID: req.ContentID,
		Language:  req.Language,
		Title:     req.Title,
		Body:      req.Body,
		SEO:       req.SEO.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.store.CreateTranslation(ctx, record)
}

// UpdateTranslation applies a partial update. SEO metadata merges field by
// field: a patch carrying only a title keeps description and keywords.
func (s *service) UpdateTranslation(ctx context.Context, req UpdateTranslationRequest) (*ContentTranslation, error) {
	record, err := s.store.GetTranslationByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := validation.Validate(*req.Title, validation.Required); err != nil {
			return nil, newValidationError(err)
		}
		record.Title = *req.Title
	}
	if req.Body != nil {
		record.Body = *req.Body
	}
	if req.SEO != nil {
		if req.SEO.Title != nil {
			record.SEO.Title = *req.SEO.Title
		}
		if req.SEO.Description != nil {
			record.SEO.Description = *req.SEO.Description
		}
		if req.SEO.Keywords != nil {
			if err := validateKeywords(req.SEO.Keywords); err != nil {
				return nil, newValidationError(err)
			}
			record.SEO.Keywords = req.SEO.Keywords.Clone()
		}
		if req.SEO.OGImage != nil {
			record.SEO.OGImage = *req.SEO.OGImage
		}
	}

	record.UpdatedAt = s.now()
	return s.store.UpdateTranslation(ctx, record)
}

// DeleteTranslation removes one translation, leaving the content and its
// remaining translations intact.
func (s *service) DeleteTranslation(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.DeleteTranslation(ctx, id)
}

// publishedSet lists published content, optionally narrowed to records that
// carry a translation in the given language, ordered by publishedAt
// descending with nulls last. Ties fall back to createdAt descending, then
// id, so repeated calls enumerate identically on every store.
func (s *service) publishedSet(ctx context.Context, language Language) ([]*Content, error) {
	records, err := s.store.ListContents(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*Content, 0, len(records))
	for _, rec := range records {
		if rec == nil || !rec.Published {
			continue
		}
		if language != "" && !rec.HasTranslation(language) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch {
		case a.PublishedAt == nil && b.PublishedAt == nil:
		case a.PublishedAt == nil:
			return false
		case b.PublishedAt == nil:
			return true
		case !a.PublishedAt.Equal(*b.PublishedAt):
			return a.PublishedAt.After(*b.PublishedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	return filtered, nil
}

func (s *service) ensureSlugFree(ctx context.Context, slugValue string, selfID uuid.UUID) error {
	existing, err := s.store.GetContentBySlug(ctx, slugValue)
	if err == nil && existing != nil && existing.ID != selfID {
		return &DuplicateSlugError{Slug: slugValue}
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func validateSlug(value string) error {
	if value == "" {
		return ErrSlugRequired
	}
	if !IsValidSlug(value) {
		return ErrSlugInvalid
	}
	return nil
}

func validateLanguage(language Language) error {
	if !language.Valid() {
		return ErrUnknownLanguage
	}
	return nil
}

func validateKeywords(keywords KeywordList) error {
	for _, kw := range keywords {
		if strings.Contains(kw, ",") {
			return validation.NewError("content_keyword_comma", "keywords must not contain commas")
		}
	}
	return nil
}
