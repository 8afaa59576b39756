package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yashp387/Job-Board/internal/auth"
	"github.com/yashp387/Job-Board/internal/config"
	"github.com/yashp387/Job-Board/internal/domain/user"
	"github.com/yashp387/Job-Board/internal/http/middlewares"
	"github.com/yashp387/Job-Board/internal/security"
	"github.com/yashp387/Job-Board/internal/utils"
)

type UsersStore interface {
	Create(ctx context.Context, name, email, passwordHash, role string, profile map[string]any) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Update(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	repo UsersStore
	jwt  *auth.Manager
}

func NewUsersHandler(repo UsersStore, jwtManager *auth.Manager) *UsersHandler {
	return &UsersHandler{
		repo: repo,
		jwt:  jwtManager,
	}
}

type RegisterRequest struct {
	Name     string         `json:"name" binding:"required,min=2"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=8"`
	Role     string         `json:"role" binding:"required,oneof=employer jobseeker"`
	Profile  map[string]any `json:"profile"`
}

// The source required all three fields in the login body even though name
// plays no part in authentication. Kept as the contract.
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *UsersHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.repo.Create(cctx, req.Name, req.Email, hash, req.Role, req.Profile)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.jwt.GenerateAccessToken(u.ID, u.Email, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"response": u,
		"token":    token,
	})
}

// Login is a public endpoint issuing the bearer token. It verifies the
// password against the stored bcrypt hash; the source skipped that check
// (and gated login behind the auth middleware), both clearly defects.
func (h *UsersHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.repo.GetByEmail(cctx, req.Email)
	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := h.jwt.GenerateAccessToken(foundUser.ID, foundUser.Email, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}

func (h *UsersHandler) ListProfiles(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	users, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list profiles")
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) UpdateProfile(ctx *gin.Context) {
	targetID := ctx.Param("id")

	if !utils.IsUUID(targetID) {
		RespondBadRequest(ctx, "user id must be a valid UUID", nil)
		return
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)
	callerRole, _ := middlewares.RoleFromContext(ctx)

	if !user.CanModify(callerID, callerRole, targetID) {
		RespondForbidden(ctx, "forbidden", "You may only modify your own profile")
		return
	}

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// password is re-hashed here, and only when it is the field being set;
	// the store never sees plaintext.
	var passwordHash *string

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)

		if err != nil {
			RespondInternal(ctx, "Could not update profile")
			return
		}

		passwordHash = &hash
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.repo.Update(cctx, targetID, req, passwordHash)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, user.ErrEmailTaken):
			RespondConflict(ctx, "email_taken", "Email is already in use.")
		default:
			RespondInternal(ctx, "Could not update profile")
		}
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) DeleteProfile(ctx *gin.Context) {
	targetID := ctx.Param("id")

	if !utils.IsUUID(targetID) {
		RespondBadRequest(ctx, "user id must be a valid UUID", nil)
		return
	}

	callerID, _ := middlewares.UserIDFromContext(ctx)
	callerRole, _ := middlewares.RoleFromContext(ctx)

	if !user.CanModify(callerID, callerRole, targetID) {
		RespondForbidden(ctx, "forbidden", "You may only delete your own profile")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, targetID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, "Could not delete profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"msg": "Profile deleted successfully"})
}
