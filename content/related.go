package content

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// GetRelated ranks published content in the given language by title-word
// overlap with the source record's translation. Candidates sharing no words
// are dropped; when nothing overlaps, the newest candidates fill in so the
// caller always has something to show. A missing source record or a source
// without a translation in the language yields an empty result, not an error.
func (s *service) GetRelated(ctx context.Context, contentID uuid.UUID, language Language, limit int) ([]*Content, error) {
	if !language.Valid() {
		return nil, newValidationError(ErrUnknownLanguage)
	}
	if limit < 1 {
		limit = DefaultRelatedLimit
	}

	source, err := s.store.GetContent(ctx, contentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []*Content{}, nil
		}
		return nil, err
	}
	origin := source.Translation(language)
	if origin == nil {
		return []*Content{}, nil
	}

	candidates, err := s.publishedSet(ctx, language)
	if err != nil {
		return nil, err
	}

	pool := make([]*Content, 0, len(candidates))
	for _, rec := range candidates {
		if rec.ID != source.ID {
			pool = append(pool, rec)
		}
	}

	sourceWords := titleWords(origin.Title)

	type scored struct {
		record *Content
		score  int
	}
	ranked := make([]scored, 0, len(pool))
	for _, rec := range pool {
		tr := rec.Translation(language)
		if tr == nil {
			continue
		}
		ranked = append(ranked, scored{record: rec, score: overlap(sourceWords, titleWords(tr.Title))})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]*Content, 0, limit)
	for _, entry := range ranked {
		if entry.score == 0 {
			break
		}
		out = append(out, entry.record)
		if len(out) == limit {
			return out, nil
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	// No titles overlap at all; fall back to the newest published records.
	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool, nil
}

// titleWords splits a title into its set of lowercased words.
func titleWords(title string) map[string]struct{} {
	words := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(title)) {
		words[w] = struct{}{}
	}
	return words
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if _, ok := b[w]; ok {
			n++
		}
	}
	return n
}
