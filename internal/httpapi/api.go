package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/polyblog/polyblog/content"
	"github.com/polyblog/polyblog/internal/auth"
	"github.com/polyblog/polyblog/internal/logging"
	"github.com/polyblog/polyblog/internal/markdown"
)

// API exposes the content service over HTTP. Read routes are public; every
// mutating route requires a bearer token issued by the auth manager.
type API struct {
	contents content.Service
	auth     *auth.Manager
	renderer *markdown.Renderer
	logger   logging.Logger
}

// New constructs the HTTP API.
func New(contents content.Service, manager *auth.Manager, renderer *markdown.Renderer, provider logging.LoggerProvider) *API {
	return &API{
		contents: contents,
		auth:     manager,
		renderer: renderer,
		logger:   logging.HTTPLogger(provider),
	}
}

// Register wires every route onto the supplied mux.
func (api *API) Register(mux *http.ServeMux) {
	if api == nil || mux == nil {
		return
	}

	mux.HandleFunc("GET /api/healthz", api.handleHealthz)
	mux.HandleFunc("POST /api/auth/login", api.handleLogin)

	mux.HandleFunc("GET /api/contents", api.handleContentList)
	mux.HandleFunc("POST /api/contents", api.requireAuth(api.handleContentCreate))
	mux.HandleFunc("GET /api/contents/slug/{slug}", api.handleContentGetBySlug)
	mux.HandleFunc("GET /api/contents/{id}", api.handleContentGet)
	mux.HandleFunc("PUT /api/contents/{id}", api.requireAuth(api.handleContentUpdate))
	mux.HandleFunc("DELETE /api/contents/{id}", api.requireAuth(api.handleContentDelete))
	mux.HandleFunc("GET /api/contents/{id}/related", api.handleContentRelated)

	mux.HandleFunc("POST /api/contents/{id}/translations", api.requireAuth(api.handleTranslationCreate))
	mux.HandleFunc("GET /api/contents/{id}/translations/{language}", api.handleTranslationGet)
	mux.HandleFunc("GET /api/contents/{id}/translations/{language}/html", api.handleTranslationHTML)
	mux.HandleFunc("PUT /api/contents/{id}/translations/{language}", api.requireAuth(api.handleTranslationUpdate))
	mux.HandleFunc("DELETE /api/contents/{id}/translations/{language}", api.requireAuth(api.handleTranslationDelete))
}

func (api *API) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAuth rejects requests without a valid bearer token.
func (api *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "missing bearer token"})
			return
		}
		if _, err := api.auth.Verify(strings.TrimSpace(token)); err != nil {
			api.logger.Debug("token rejected", "error", err)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "invalid token"})
			return
		}
		next(w, r)
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt string        `json:"expiresAt"`
	User      auth.Identity `json:"user"`
}

func (api *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	identity, token, expiresAt, err := api.auth.Login(payload.Email, payload.Password)
	if err != nil {
		api.logger.Warn("login failed", "email", payload.Email)
		writeError(w, err)
		return
	}

	api.logger.Info("login succeeded", "email", identity.Email)
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      identity,
	})
}
