package content

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and single-process deployments.
// One mutex guards every map, so uniqueness checks are atomic with writes.
type MemoryStore struct {
	mu           sync.RWMutex
	contents     map[uuid.UUID]*Content
	slugIndex    map[string]uuid.UUID
	translations map[uuid.UUID]*ContentTranslation
	byLanguage   map[uuid.UUID]map[Language]uuid.UUID
	order        map[uuid.UUID][]uuid.UUID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contents:     make(map[uuid.UUID]*Content),
		slugIndex:    make(map[string]uuid.UUID),
		translations: make(map[uuid.UUID]*ContentTranslation),
		byLanguage:   make(map[uuid.UUID]map[Language]uuid.UUID),
		order:        make(map[uuid.UUID][]uuid.UUID),
	}
}

// CreateContent inserts the supplied record, enforcing slug uniqueness.
func (m *MemoryStore) CreateContent(_ context.Context, record *Content) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.slugIndex[record.Slug]; taken {
		return nil, &DuplicateSlugError{Slug: record.Slug}
	}

	copied := cloneContent(record)
	copied.Translations = nil
	m.contents[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	m.byLanguage[copied.ID] = make(map[Language]uuid.UUID)
	return m.assemble(copied), nil
}

// GetContent retrieves a record with all its translations attached.
func (m *MemoryStore) GetContent(_ context.Context, id uuid.UUID) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.contents[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: id.String()}
	}
	return m.assemble(rec), nil
}

// GetContentBySlug retrieves a record by its slug.
func (m *MemoryStore) GetContentBySlug(_ context.Context, slug string) (*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: slug}
	}
	return m.assemble(m.contents[id]), nil
}

// ListContents returns every record with translations attached.
func (m *MemoryStore) ListContents(_ context.Context) ([]*Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Content, 0, len(m.contents))
	for _, rec := range m.contents {
		out = append(out, m.assemble(rec))
	}
	return out, nil
}

// UpdateContent replaces the stored content fields, re-checking slug
// uniqueness when the slug moved.
func (m *MemoryStore) UpdateContent(_ context.Context, record *Content) (*Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.contents[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "content", Key: record.ID.String()}
	}

	if record.Slug != current.Slug {
		if owner, taken := m.slugIndex[record.Slug]; taken && owner != record.ID {
			return nil, &DuplicateSlugError{Slug: record.Slug}
		}
		delete(m.slugIndex, current.Slug)
		m.slugIndex[record.Slug] = record.ID
	}

	copied := cloneContent(record)
	copied.Translations = nil
	m.contents[record.ID] = copied
	return m.assemble(copied), nil
}

// DeleteContent removes a record and cascades to its translations.
func (m *MemoryStore) DeleteContent(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.contents[id]
	if !ok {
		return false, nil
	}

	for _, trID := range m.order[id] {
		delete(m.translations, trID)
	}
	delete(m.order, id)
	delete(m.byLanguage, id)
	delete(m.slugIndex, rec.Slug)
	delete(m.contents, id)
	return true, nil
}

// CreateTranslation inserts a translation, enforcing the (content, language)
// uniqueness constraint.
func (m *MemoryStore) CreateTranslation(_ context.Context, record *ContentTranslation) (*ContentTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contents[record.ContentID]; !ok {
		return nil, &NotFoundError{Resource: "content", Key: record.ContentID.String()}
	}
	langs := m.byLanguage[record.ContentID]
	if _, taken := langs[record.Language]; taken {
		return nil, &DuplicateTranslationError{ContentID: record.ContentID, Language: record.Language}
	}

	copied := cloneTranslation(record)
	m.translations[copied.ID] = copied
	langs[copied.Language] = copied.ID
	m.order[copied.ContentID] = append(m.order[copied.ContentID], copied.ID)
	return cloneTranslation(copied), nil
}

// GetTranslation resolves a translation by its (content, language) key.
func (m *MemoryStore) GetTranslation(_ context.Context, contentID uuid.UUID, language Language) (*ContentTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byLanguage[contentID][language]
	if !ok {
		return nil, &NotFoundError{Resource: "translation", Key: contentID.String() + "/" + string(language)}
	}
	return cloneTranslation(m.translations[id]), nil
}

// GetTranslationByID resolves a translation by its identifier.
func (m *MemoryStore) GetTranslationByID(_ context.Context, id uuid.UUID) (*ContentTranslation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.translations[id]
	if !ok {
		return nil, &NotFoundError{Resource: "translation", Key: id.String()}
	}
	return cloneTranslation(rec), nil
}

// UpdateTranslation replaces the stored translation fields.
func (m *MemoryStore) UpdateTranslation(_ context.Context, record *ContentTranslation) (*ContentTranslation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.translations[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "translation", Key: record.ID.String()}
	}

	copied := cloneTranslation(record)
	m.translations[record.ID] = copied
	return cloneTranslation(copied), nil
}

// DeleteTranslation removes a single translation, leaving its content and
// sibling translations intact.
func (m *MemoryStore) DeleteTranslation(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.translations[id]
	if !ok {
		return false, nil
	}

	delete(m.translations, id)
	delete(m.byLanguage[rec.ContentID], rec.Language)
	siblings := m.order[rec.ContentID]
	for i, trID := range siblings {
		if trID == id {
			m.order[rec.ContentID] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	return true, nil
}

// assemble clones the record and attaches translation clones in creation
// order. Callers must hold at least the read lock.
func (m *MemoryStore) assemble(rec *Content) *Content {
	copied := cloneContent(rec)
	copied.Translations = make([]*ContentTranslation, 0, len(m.order[rec.ID]))
	for _, trID := range m.order[rec.ID] {
		if tr, ok := m.translations[trID]; ok {
			copied.Translations = append(copied.Translations, cloneTranslation(tr))
		}
	}
	return copied
}

func cloneContent(src *Content) *Content {
	if src == nil {
		return nil
	}
	copied := *src
	if src.PublishedAt != nil {
		at := *src.PublishedAt
		copied.PublishedAt = &at
	}
	if len(src.Translations) > 0 {
		copied.Translations = make([]*ContentTranslation, 0, len(src.Translations))
		for _, tr := range src.Translations {
			copied.Translations = append(copied.Translations, cloneTranslation(tr))
		}
	}
	return &copied
}

func cloneTranslation(src *ContentTranslation) *ContentTranslation {
	if src == nil {
		return nil
	}
	copied := *src
	copied.SEO = src.SEO.Clone()
	return &copied
}
