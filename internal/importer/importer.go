package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"

	"github.com/polyblog/polyblog/content"
	"github.com/polyblog/polyblog/internal/logging"
)

// Config controls how Markdown documents are discovered and attributed.
type Config struct {
	// OwnerID is stamped on every content record the importer creates.
	OwnerID uuid.UUID
	// DefaultLanguage is used when neither the frontmatter nor the file path
	// names a language.
	DefaultLanguage content.Language
	// Publish marks imported content as published unless the frontmatter says
	// otherwise.
	Publish bool
}

// Importer walks a filesystem of Markdown documents with YAML frontmatter and
// loads them as content translations. Documents sharing a slug become
// translations of one content record.
type Importer struct {
	svc    content.Service
	cfg    Config
	logger logging.Logger
}

// New constructs an importer over the given content service.
func New(svc content.Service, cfg Config, provider logging.LoggerProvider) *Importer {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = content.LanguageEnglish
	}
	return &Importer{
		svc:    svc,
		cfg:    cfg,
		logger: logging.ImporterLogger(provider),
	}
}

// Report summarises a completed import run.
type Report struct {
	ContentsCreated     int
	TranslationsCreated int
	Skipped             int
}

type document struct {
	path     string
	slug     string
	language content.Language
	title    string
	body     string
	seo      content.SEOMetadata
	publish  *bool
}

type frontMatterEnvelope struct {
	Title          string   `yaml:"title"`
	Slug           string   `yaml:"slug"`
	Language       string   `yaml:"language"`
	Published      *bool    `yaml:"published"`
	SEOTitle       string   `yaml:"seoTitle"`
	SEODescription string   `yaml:"seoDescription"`
	SEOKeywords    []string `yaml:"seoKeywords"`
	SEOOGImage     string   `yaml:"seoOgImage"`
}

// Import walks fsys for *.md files and loads them. Documents that fail to
// parse or collide with existing translations are counted as skipped rather
// than aborting the run.
func (i *Importer) Import(ctx context.Context, fsys fs.FS) (Report, error) {
	docs, report, err := i.collect(fsys)
	if err != nil {
		return report, err
	}

	// Group documents by slug so one content record collects all languages.
	bySlug := map[string][]document{}
	slugs := []string{}
	for _, doc := range docs {
		if _, ok := bySlug[doc.slug]; !ok {
			slugs = append(slugs, doc.slug)
		}
		bySlug[doc.slug] = append(bySlug[doc.slug], doc)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		group := bySlug[slug]
		record, created, err := i.ensureContent(ctx, slug, group[0])
		if err != nil {
			return report, err
		}
		if created {
			report.ContentsCreated++
		}

		for _, doc := range group {
			if record.HasTranslation(doc.language) {
				i.logger.Debug("translation exists, skipping", "slug", slug, "language", doc.language.String())
				report.Skipped++
				continue
			}
			_, err := i.svc.CreateTranslation(ctx, content.CreateTranslationRequest{
				ContentID: record.ID,
				Language:  doc.language,
				Title:     doc.title,
				Body:      doc.body,
				SEO:       doc.seo,
			})
			switch {
			case err == nil:
				report.TranslationsCreated++
				record.Translations = append(record.Translations, &content.ContentTranslation{
					ContentID: record.ID,
					Language:  doc.language,
				})
			case errors.Is(err, content.ErrTranslationExists):
				report.Skipped++
			default:
				return report, fmt.Errorf("import %s: %w", doc.path, err)
			}
		}
	}

	i.logger.Info("import finished",
		"contents", report.ContentsCreated,
		"translations", report.TranslationsCreated,
		"skipped", report.Skipped,
	)
	return report, nil
}

func (i *Importer) collect(fsys fs.FS) ([]document, Report, error) {
	var docs []document
	var report Report

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}

		doc, err := i.parse(p, data)
		if err != nil {
			i.logger.Warn("skipping document", "path", p, "error", err)
			report.Skipped++
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, report, err
	}

	sort.Slice(docs, func(a, b int) bool { return docs[a].path < docs[b].path })
	return docs, report, nil
}

func (i *Importer) parse(filePath string, data []byte) (document, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return document{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	slug := strings.TrimSpace(meta.Slug)
	if slug == "" {
		slug = strings.TrimSuffix(path.Base(filePath), ".md")
	}
	normalized, err := content.NormalizeSlug(slug)
	if err != nil {
		return document{}, fmt.Errorf("slug %q: %w", slug, err)
	}

	language := i.detectLanguage(filePath, meta.Language)
	if !language.Valid() {
		return document{}, fmt.Errorf("unknown language %q", language)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		return document{}, errors.New("missing title")
	}

	return document{
		path:     filePath,
		slug:     normalized,
		language: language,
		title:    title,
		body:     string(body),
		seo: content.SEOMetadata{
			Title:       meta.SEOTitle,
			Description: meta.SEODescription,
			Keywords:    content.KeywordList(meta.SEOKeywords),
			OGImage:     meta.SEOOGImage,
		},
		publish: meta.Published,
	}, nil
}

// detectLanguage prefers frontmatter, then a leading path segment matching a
// supported language code, then the configured default.
func (i *Importer) detectLanguage(filePath, declared string) content.Language {
	if declared = strings.TrimSpace(declared); declared != "" {
		return content.Language(declared)
	}
	segments := strings.Split(path.Clean(filePath), "/")
	if len(segments) > 1 {
		candidate := content.Language(segments[0])
		if candidate.Valid() {
			return candidate
		}
	}
	return i.cfg.DefaultLanguage
}

func (i *Importer) ensureContent(ctx context.Context, slug string, first document) (*content.Content, bool, error) {
	record, err := i.svc.GetBySlug(ctx, slug)
	if err == nil {
		return record, false, nil
	}
	if !errors.Is(err, content.ErrNotFound) {
		return nil, false, err
	}

	publish := i.cfg.Publish
	if first.publish != nil {
		publish = *first.publish
	}

	record, err = i.svc.Create(ctx, content.CreateContentRequest{
		OwnerID:         i.cfg.OwnerID,
		Slug:            slug,
		DefaultLanguage: first.language,
		Published:       publish,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create content %q: %w", slug, err)
	}
	i.logger.Info("content created", "slug", slug, "published", publish)
	return record, true, nil
}
