package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/halfmoon/halfmoon/application/port/inbound"
	"github.com/halfmoon/halfmoon/application/usecase"
	"github.com/halfmoon/halfmoon/infrastructure/http/middleware"
	"github.com/halfmoon/halfmoon/infrastructure/http/response"
	"github.com/halfmoon/halfmoon/infrastructure/http/validator"
	"github.com/halfmoon/halfmoon/pkg/httperr"
)

type AuthHandler struct {
	auth inbound.AuthUseCase
	log  logrus.FieldLogger
}

func NewAuthHandler(auth inbound.AuthUseCase, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

// RegisterRoutes mounts the auth endpoints. The login path is configuration;
// the rest of the surface is fixed.
func (h *AuthHandler) RegisterRoutes(r *mux.Router, loginPath string, rl *middleware.RateLimitMiddleware) {
	r.Handle(loginPath, rl.Limit(http.HandlerFunc(h.Login))).Methods(http.MethodPost)
	r.Handle("/api/auth/reissue", rl.Limit(http.HandlerFunc(h.Reissue))).Methods(http.MethodPost)
	r.Handle("/api/auth/logout", middleware.RequireAuth(http.HandlerFunc(h.Logout))).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signup", h.SignUp).Methods(http.MethodPost)
	r.Handle("/api/user/me", middleware.RequireAuth(http.HandlerFunc(h.Me))).Methods(http.MethodGet)
}

type reissueRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login is the terminal handler on the configured login path. It accepts a
// JSON or form-encoded body, verifies credentials through the service and
// writes the issued pair, or 401 with a message on failure.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	pair, err := h.auth.Login(r.Context(), req)
	if err != nil {
		h.log.WithError(err).WithField("username", req.Username).Warn("login failed")
		response.Error(w, httperr.StatusFor(err), httperr.MessageFor(err))
		return
	}

	response.JSON(w, http.StatusOK, pair)
}

// Reissue rotates a refresh token into a brand-new pair. A blank token is
// rejected before the service is reached.
func (h *AuthHandler) Reissue(w http.ResponseWriter, r *http.Request) {
	var req reissueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validator.ValidateRequired(req.RefreshToken) {
		response.BadRequest(w, "refreshToken is required")
		return
	}

	pair, err := h.auth.ReissueFromRefresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.log.WithError(err).Warn("token reissue failed")
		response.Error(w, httperr.StatusFor(err), httperr.MessageFor(err))
		return
	}

	response.JSON(w, http.StatusOK, pair)
}

// Logout revokes every live pair for the authenticated subject.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	if err := h.auth.RevokeBySubject(r.Context(), principal.Subject); err != nil {
		response.Error(w, httperr.StatusFor(err), httperr.MessageFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SignUp creates a directory entry with a hashed password and the USER role.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req inbound.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "invalid email format")
		return
	}
	if !validator.ValidatePassword(req.Password) {
		response.BadRequest(w, "password must be at least 8 characters")
		return
	}
	if !validator.ValidateRequired(req.Nickname) {
		response.BadRequest(w, "nickname is required")
		return
	}

	if err := h.auth.SignUp(r.Context(), req); err != nil {
		if errors.Is(err, usecase.ErrEmailInUse) {
			response.Conflict(w, "email already in use")
			return
		}
		response.Error(w, httperr.StatusFor(err), httperr.MessageFor(err))
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Me returns the current principal; it is the reference protected route
// demonstrating the current-principal lookup downstream features use.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}
	response.JSON(w, http.StatusOK, principal)
}

func decodeLoginRequest(r *http.Request) (inbound.LoginRequest, error) {
	var req inbound.LoginRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Username = r.PostFormValue("username")
	req.Password = r.PostFormValue("password")
	return req, nil
}
