package http

import (
	"net/http"

	"github.com/agentry-dev/agentry/internal/domain/user"
	"github.com/agentry-dev/agentry/internal/middleware"
)

// Register handles POST /api/v1/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}

	u, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/v1/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateAPIKey handles POST /api/v1/auth/api-keys.
func (h *Handlers) CreateAPIKey(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	req, ok := readJSON[user.CreateAPIKeyRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.auth.CreateAPIKey(r.Context(), u.ID, req)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
