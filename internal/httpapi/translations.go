package httpapi

import (
	"net/http"
	"strings"

	"github.com/polyblog/polyblog/content"
)

type seoMetadataPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	OGImage     string   `json:"ogImage"`
}

type seoMetadataPatchPayload struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	OGImage     *string  `json:"ogImage,omitempty"`
}

type translationCreatePayload struct {
	Language content.Language   `json:"language"`
	Title    string             `json:"title"`
	Content  string             `json:"content"`
	SEO      seoMetadataPayload `json:"seoMetadata"`
}

type translationUpdatePayload struct {
	Title   *string                  `json:"title,omitempty"`
	Content *string                  `json:"content,omitempty"`
	SEO     *seoMetadataPatchPayload `json:"seoMetadata,omitempty"`
}

func pathLanguage(w http.ResponseWriter, r *http.Request) (content.Language, bool) {
	language := content.Language(strings.TrimSpace(r.PathValue("language")))
	if !language.Valid() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "unknown language"})
		return "", false
	}
	return language, true
}

func (api *API) handleTranslationGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	language, ok := pathLanguage(w, r)
	if !ok {
		return
	}

	record, err := api.contents.GetTranslation(r.Context(), id, language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleTranslationHTML serves the translation body rendered to HTML.
func (api *API) handleTranslationHTML(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	language, ok := pathLanguage(w, r)
	if !ok {
		return
	}

	record, err := api.contents.GetTranslation(r.Context(), id, language)
	if err != nil {
		writeError(w, err)
		return
	}

	html, err := api.renderer.RenderString(record.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"title": record.Title,
		"html":  html,
	})
}

func (api *API) handleTranslationCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var payload translationCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	record, err := api.contents.CreateTranslation(r.Context(), content.CreateTranslationRequest{
		ContentID: id,
		Language:  payload.Language,
		Title:     payload.Title,
		Body:      payload.Content,
		SEO: content.SEOMetadata{
			Title:       payload.SEO.Title,
			Description: payload.SEO.Description,
			Keywords:    content.KeywordList(payload.SEO.Keywords),
			OGImage:     payload.SEO.OGImage,
		},
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *API) handleTranslationUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	language, ok := pathLanguage(w, r)
	if !ok {
		return
	}

	var payload translationUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	existing, err := api.contents.GetTranslation(r.Context(), id, language)
	if err != nil {
		writeError(w, err)
		return
	}

	req := content.UpdateTranslationRequest{
		ID:    existing.ID,
		Title: payload.Title,
		Body:  payload.Content,
	}
	if payload.SEO != nil {
		req.SEO = &content.SEOMetadataPatch{
			Title:       payload.SEO.Title,
			Description: payload.SEO.Description,
			Keywords:    content.KeywordList(payload.SEO.Keywords),
			OGImage:     payload.SEO.OGImage,
		}
	}

	record, err := api.contents.UpdateTranslation(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleTranslationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	language, ok := pathLanguage(w, r)
	if !ok {
		return
	}

	existing, err := api.contents.GetTranslation(r.Context(), id, language)
	if err != nil {
		writeError(w, err)
		return
	}

	deleted, err := api.contents.DeleteTranslation(r.Context(), existing.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "translation not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
