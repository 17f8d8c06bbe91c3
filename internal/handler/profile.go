package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/taskvault/internal/auth"
	"github.com/iliyamo/taskvault/internal/middleware"
	"github.com/iliyamo/taskvault/internal/model"
	"github.com/iliyamo/taskvault/internal/repository"
)

// ProfileHandler serves the merged user+profile view, the profile upsert
// and the superuser-only account listing.
type ProfileHandler struct {
	Users    *repository.UserRepo
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(u *repository.UserRepo, p *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Users: u, Profiles: p}
}

type upsertProfileReq struct {
	AboutMe       string `json:"about_me"`
	ContactNumber string `json:"contact_number"`
	CompanyName   string `json:"company_name"`
}

// profileResp merges the account record with the free-form profile row.
// Absent profile rows render as empty strings, never as an error.
type profileResp struct {
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	SignupMethod  string  `json:"signup_method"`
	ProfileImage  *string `json:"profile_image"`
	AboutMe       string  `json:"about_me"`
	ContactNumber string  `json:"contact_number"`
	CompanyName   string  `json:"company_name"`
}

type listedUser struct {
	ID           uint64    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	SignupMethod string    `json:"signup_method"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// Get returns the authenticated user's merged profile view.
func (h *ProfileHandler) Get(c echo.Context) error {
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
		c.Logger().Errorf("get profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	p, err := h.Profiles.GetByEmail(ctx, u.Email)
	if err != nil {
		c.Logger().Errorf("get profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, profileResp{
		Username:      u.Username,
		Email:         u.Email,
		SignupMethod:  u.SignupMethod,
		ProfileImage:  u.ProfileImage,
		AboutMe:       p.AboutMe,
		ContactNumber: p.ContactNumber,
		CompanyName:   p.CompanyName,
	})
}

// Upsert creates or replaces the authenticated user's profile row.
func (h *ProfileHandler) Upsert(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req upsertProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		c.Logger().Errorf("upsert profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Profiles.Upsert(ctx, model.Profile{
		Email:         u.Email,
		AboutMe:       req.AboutMe,
		ContactNumber: req.ContactNumber,
		CompanyName:   req.CompanyName,
	}); err != nil {
		c.Logger().Errorf("upsert profile: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated"})
}

// ListUsers returns every account, superuser only.  Actor lookup failure
// is reported as not found before the policy check, so a vanished actor
// never sees a 403.
func (h *ProfileHandler) ListUsers(c echo.Context) error {
	uid, ok := middleware.ActorID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	actor, err := h.Users.GetByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		c.Logger().Errorf("list users: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := auth.SuperuserOnly(actor); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "superuser required"})
	}

	users, err := h.Users.List(ctx)
	if err != nil {
		c.Logger().Errorf("list users: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]listedUser, 0, len(users))
	for _, u := range users {
		out = append(out, listedUser{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			SignupMethod: u.SignupMethod,
			IsSuperuser:  u.IsSuperuser,
			CreatedAt:    u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}
