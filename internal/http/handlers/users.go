package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storefront/platform/internal/accounts"
	"github.com/storefront/platform/internal/config"
	"github.com/storefront/platform/internal/domain/user"
	"github.com/storefront/platform/internal/http/middlewares"
)

type AccountService interface {
	Register(ctx context.Context, email, password, name string) (accounts.Session, error)
	Login(ctx context.Context, email, password string) (accounts.Session, error)
	Profile(ctx context.Context, userID int64) (user.Public, error)
}

type UsersHandler struct {
	svc AccountService
}

func NewUsersHandler(svc AccountService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// bcrypt plus two round trips
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	s, err := h.svc.Register(cctx, req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrValidation):
			RespondBadRequest(ctx, "Email, password, and name are required", nil)
		case errors.Is(err, user.ErrDuplicateEmail):
			RespondConflict(ctx, "duplicate_email", "User already exists")
		default:
			RespondInternal(ctx, "Internal server error")
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    s.User.PublicWithCreated(),
		"token":   s.Token,
	})
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 5*time.Second)
	defer cancel()

	s, err := h.svc.Login(cctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrValidation):
			RespondBadRequest(ctx, "Email and password are required", nil)
		case errors.Is(err, accounts.ErrInvalidCredentials):
			RespondUnauthorized(ctx, "invalid_credentials", "Invalid credentials")
		default:
			RespondInternal(ctx, "Internal server error")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    s.User.Public(),
		"token":   s.Token,
	})
}

// Profile requires middlewares.RequireAuth upstream.
func (h *UsersHandler) Profile(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "No token provided")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	u, err := h.svc.Profile(cctx, id.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": u})
}
