package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/taskvault/internal/auth"
	"github.com/iliyamo/taskvault/internal/middleware"
	"github.com/iliyamo/taskvault/internal/model"
	"github.com/iliyamo/taskvault/internal/repository"
)

// UserHandler serves the rich per-account views and the destructive
// account deletion, both gated by the self-or-superuser policy.
type UserHandler struct {
	Users    *repository.UserRepo
	Profiles *repository.ProfileRepo
}

func NewUserHandler(u *repository.UserRepo, p *repository.ProfileRepo) *UserHandler {
	return &UserHandler{Users: u, Profiles: p}
}

// richProfile is the detailed account view: the account record, the
// profile row and signup-method-derived verification fields.
type richProfile struct {
	ID            uint64    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	SignupMethod  string    `json:"signupMethod"`
	ProfileImage  *string   `json:"profileImage"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	AboutMe       string    `json:"aboutMe"`
	ContactNumber string    `json:"contactNumber"`
	CompanyName   string    `json:"companyName"`
	EmailVerified bool      `json:"emailVerified,omitempty"`
	GoogleVerified  bool      `json:"googleVerified,omitempty"`
	LastLogin     time.Time `json:"lastLogin"`
}

// Delete removes an account and all dependent records.  The actor may
// delete itself; a superuser may delete anyone.  Ordering: actor lookup
// 404, target lookup 404, policy 403, then the cascade.
func (h *UserHandler) Delete(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		c.Logger().Errorf("delete user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("delete user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.SelfOrSuperuser(actor, targetID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only delete your own data"})
	}

	if err := h.Users.DeleteCascade(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Deleted between the existence check and the cascade.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("delete user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user data deleted"})
}

// Profile returns the rich profile of the authenticated user.
func (h *UserHandler) Profile(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		c.Logger().Errorf("user profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return h.respondRich(c, ctx, u)
}

// ProfileByID returns the rich profile of an arbitrary account, allowed
// for the account itself and for superusers.
func (h *UserHandler) ProfileByID(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		c.Logger().Errorf("user profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	target, err := h.Users.GetByID(ctx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		c.Logger().Errorf("user profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.SelfOrSuperuser(actor, targetID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only view your own profile"})
	}
	return h.respondRich(c, ctx, target)
}

func (h *UserHandler) respondRich(c echo.Context, ctx context.Context, u model.User) error {
	p, err := h.Profiles.GetByEmail(ctx, u.Email)
	if err != nil {
		c.Logger().Errorf("user profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	role := "user"
	if u.IsSuperuser {
		role = "superuser"
	}
	resp := richProfile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          role,
		SignupMethod:  u.SignupMethod,
		ProfileImage:  u.ProfileImage,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		AboutMe:       p.AboutMe,
		ContactNumber: p.ContactNumber,
		CompanyName:   p.CompanyName,
		LastLogin:     u.UpdatedAt,
	}
	// OTP signup proves email ownership; a Google account was verified by
	// Google.  Either way exactly one of the flags is set.
	switch u.SignupMethod {
	case model.SignupMethodPassword:
		resp.EmailVerified = true
	case model.SignupMethodGoogle:
		resp.GoogleVerified = true
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": resp})
}
