package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/polyblog/polyblog/content"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type contentCreatePayload struct {
	UserID          uuid.UUID        `json:"userId"`
	Slug            string           `json:"slug"`
	DefaultLanguage content.Language `json:"defaultLanguage"`
	Published       bool             `json:"published"`
}

type contentUpdatePayload struct {
	Slug            *string           `json:"slug,omitempty"`
	DefaultLanguage *content.Language `json:"defaultLanguage,omitempty"`
	Published       *bool             `json:"published,omitempty"`
}

// handleContentList serves both list shapes: published=true returns the full
// published list, anything else returns the paginated envelope.
func (api *API) handleContentList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	language := content.Language(strings.TrimSpace(query.Get("language")))

	if query.Get("published") == "true" && query.Get("page") == "" && query.Get("pageSize") == "" {
		records, err := api.contents.GetAllPublished(r.Context(), language)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
		return
	}

	page := intQuery(query.Get("page"), defaultPage)
	pageSize := intQuery(query.Get("pageSize"), defaultPageSize)

	result, err := api.contents.GetPaginated(r.Context(), page, pageSize, language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (api *API) handleContentGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	record, err := api.contents.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleContentGetBySlug(w http.ResponseWriter, r *http.Request) {
	record, err := api.contents.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleContentCreate(w http.ResponseWriter, r *http.Request) {
	var payload contentCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	record, err := api.contents.Create(r.Context(), content.CreateContentRequest{
		OwnerID:         payload.UserID,
		Slug:            payload.Slug,
		DefaultLanguage: payload.DefaultLanguage,
		Published:       payload.Published,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (api *API) handleContentUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var payload contentUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	record, err := api.contents.Update(r.Context(), content.UpdateContentRequest{
		ID:              id,
		Slug:            payload.Slug,
		DefaultLanguage: payload.DefaultLanguage,
		Published:       payload.Published,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *API) handleContentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	deleted, err := api.contents.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "content not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (api *API) handleContentRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()
	language := content.Language(strings.TrimSpace(query.Get("language")))
	limit := intQuery(query.Get("limit"), content.DefaultRelatedLimit)

	records, err := api.contents.GetRelated(r.Context(), id, language, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
