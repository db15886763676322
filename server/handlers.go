package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nazonexus/identity/auth"
	"github.com/nazonexus/identity/authctx"
	"github.com/nazonexus/identity/errors"
	"github.com/nazonexus/identity/user"
	"github.com/nazonexus/identity/validation"
	"github.com/nazonexus/identity/version"
)

// Handlers carries the HTTP endpoints for authentication and accounts.
type Handlers struct {
	svc *auth.Service
}

// NewHandlers creates the endpoint set on top of svc.
func NewHandlers(svc *auth.Service) *Handlers {
	return &Handlers{svc: svc}
}

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userView  `json:"user"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
	Nickname string `json:"nickname" validate:"max=64"`
	Email    string `json:"email" validate:"required,email,max=255"`
}

type userView struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Nickname  string     `json:"nickname,omitempty"`
	Email     string     `json:"email"`
	Admin     bool       `json:"admin"`
	Superuser bool       `json:"superuser"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func viewOf(u *user.User) userView {
	return userView{
		ID:        u.ID.String(),
		Username:  u.Username,
		Nickname:  u.Nickname,
		Email:     u.Email,
		Admin:     u.Admin,
		Superuser: u.Superuser,
		LastLogin: u.LastLogin,
	}
}

// Login answers POST /auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.Validation("request body must be valid JSON"))
		return
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return
	}

	u, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	raw, claims, err := h.svc.IssueToken(u)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	RespondOK(c, loginResponse{
		Token:     raw,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      viewOf(u),
	})
}

// Register answers POST /auth/register.
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.Validation("request body must be valid JSON"))
		return
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return
	}

	u, err := h.svc.Register(c.Request.Context(), user.NewUserParams{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		Email:    req.Email,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondCreated(c, viewOf(u))
}

// Whoami answers GET /auth/whoami with the caller's resolved identity.
func (h *Handlers) Whoami(c *gin.Context) {
	ident := authctx.MustGet(c.Request.Context())
	RespondOK(c, gin.H{
		"id":        ident.ID.String(),
		"username":  ident.Username,
		"email":     ident.Email,
		"admin":     ident.Admin,
		"superuser": ident.Superuser,
	})
}

// BootstrapAdmin answers POST /bootstrap/admin. It only succeeds while the
// installation has no accounts at all.
func (h *Handlers) BootstrapAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.Validation("request body must be valid JSON"))
		return
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return
	}

	u, err := h.svc.BootstrapAdmin(c.Request.Context(), user.NewUserParams{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
		Email:    req.Email,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondCreated(c, viewOf(u))
}

// Health answers GET /health for liveness probes.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Get().Version,
	})
}
