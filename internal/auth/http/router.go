package http

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/qa-llm/backend/internal/auth/service"
	commonerrors "github.com/AlibekovAA/qa-llm/backend/internal/common/errors"
	commonhttp "github.com/AlibekovAA/qa-llm/backend/internal/common/http"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/qa-llm/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/qa-llm/backend/internal/user/domain"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	auth *service.AuthService
	log  *logger.Logger
}

// Register mounts the auth routes under prefix. requireAuth guards /auth/me.
func Register(mux *http.ServeMux, prefix string, auth *service.AuthService, requireAuth func(http.Handler) http.Handler, timeout time.Duration, log *logger.Logger) {
	h := &Handler{auth: auth, log: log}
	post := commonhttp.RequireMethod(http.MethodPost)
	get := commonhttp.RequireMethod(http.MethodGet)
	bounded := commonhttp.WithTimeout(timeout)

	mux.HandleFunc(prefix+"/auth/register", post(bounded(h.register)))
	mux.HandleFunc(prefix+"/auth/login", post(bounded(h.login)))
	mux.Handle(prefix+"/auth/me", requireAuth(get(h.me)))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// login accepts a JSON body or the OAuth2 password form, whose "username" field may hold an email.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if commonhttp.IsForm(r) {
		if err := commonhttp.ParseForm(r); err != nil {
			commonhttp.HandleError(w, r, err, h.log)
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	} else if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := jwtverify.UserFromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrUnauthorized, h.log)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u userdomain.User) userResponse {
	return userResponse{
		ID:        string(u.ID),
		Email:     u.Email,
		Username:  u.Username,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
