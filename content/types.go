package content

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Language identifies one of the supported content languages.
type Language string

const (
	LanguageChinese  Language = "zh"
	LanguageEnglish  Language = "en"
	LanguageJapanese Language = "ja"
	LanguageSpanish  Language = "es"
	LanguageFrench   Language = "fr"
)

// Languages returns the supported language codes in canonical order.
func Languages() []Language {
	return []Language{
		LanguageChinese,
		LanguageEnglish,
		LanguageJapanese,
		LanguageSpanish,
		LanguageFrench,
	}
}

// Valid reports whether the code belongs to the supported set.
func (l Language) Valid() bool {
	switch l {
	case LanguageChinese, LanguageEnglish, LanguageJapanese, LanguageSpanish, LanguageFrench:
		return true
	}
	return false
}

func (l Language) String() string { return string(l) }

// KeywordList carries SEO keywords. It persists as a single comma-joined
// column, so the split/join lives here and nowhere else. Keywords containing
// commas are rejected at validation time.
type KeywordList []string

// Value implements driver.Valuer.
func (k KeywordList) Value() (driver.Value, error) {
	return strings.Join(k, ","), nil
}

// Scan implements sql.Scanner.
func (k *KeywordList) Scan(src any) error {
	if src == nil {
		*k = nil
		return nil
	}

	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("content: cannot scan %T into KeywordList", src)
	}

	if raw == "" {
		*k = nil
		return nil
	}
	*k = strings.Split(raw, ",")
	return nil
}

// Clone returns an independent copy of the list.
func (k KeywordList) Clone() KeywordList {
	if k == nil {
		return nil
	}
	return append(KeywordList(nil), k...)
}

// SEOMetadata describes search-engine and social-sharing presentation for a
// single translation.
type SEOMetadata struct {
	Title       string      `bun:"title"       json:"title"`
	Description string      `bun:"description" json:"description"`
	Keywords    KeywordList `bun:"keywords"    json:"keywords"`
	OGImage     string      `bun:"og_image"    json:"ogImage,omitempty"`
}

// Clone returns an independent copy of the metadata.
func (m SEOMetadata) Clone() SEOMetadata {
	m.Keywords = m.Keywords.Clone()
	return m
}

// Content is a language-independent publishable unit. Translations carry the
// renderable title and body; a Content with zero translations is valid but
// has nothing to render.
type Content struct {
	bun.BaseModel `bun:"table:contents,alias:c"`

	ID              uuid.UUID  `bun:",pk,type:uuid"                   json:"id"`
	OwnerID         uuid.UUID  `bun:"owner_id,notnull,type:uuid"      json:"ownerId"`
	Slug            string     `bun:"slug,notnull,unique"             json:"slug"`
	DefaultLanguage Language   `bun:"default_language,notnull"        json:"defaultLanguage"`
	Published       bool       `bun:"published,notnull,default:false" json:"published"`
	PublishedAt     *time.Time `bun:"published_at,nullzero"           json:"publishedAt"`
	CreatedAt       time.Time  `bun:"created_at,notnull"              json:"createdAt"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull"              json:"updatedAt"`

	Translations []*ContentTranslation `bun:"rel:has-many,join:id=content_id" json:"translations"`
}

// Translation returns the translation for the given language, or nil.
func (c *Content) Translation(language Language) *ContentTranslation {
	if c == nil {
		return nil
	}
	for _, tr := range c.Translations {
		if tr != nil && tr.Language == language {
			return tr
		}
	}
	return nil
}

// HasTranslation reports whether a translation exists for the language.
func (c *Content) HasTranslation(language Language) bool {
	return c.Translation(language) != nil
}

// ContentTranslation is one language rendering of a Content. At most one
// translation exists per (content, language) pair.
type ContentTranslation struct {
	bun.BaseModel `bun:"table:content_translations,alias:ct"`

	ID        uuid.UUID   `bun:",pk,type:uuid"                json:"id"`
	ContentID uuid.UUID   `bun:"content_id,notnull,type:uuid" json:"contentId"`
	Language  Language    `bun:"language,notnull"             json:"language"`
	Title     string      `bun:"title,notnull"                json:"title"`
	Body      string      `bun:"body,notnull"                 json:"content"`
	SEO       SEOMetadata `bun:"embed:seo_"                   json:"seoMetadata"`
	CreatedAt time.Time   `bun:"created_at,notnull"           json:"createdAt"`
	UpdatedAt time.Time   `bun:"updated_at,notnull"           json:"updatedAt"`
}

// Page is the envelope returned by paginated listings. Total counts the full
// filtered set, not the returned slice.
type Page struct {
	Contents []*Content `json:"contents"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}
