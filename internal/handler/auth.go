package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/taskvault/internal/auth"  // auth flows and error taxonomy
	"github.com/iliyamo/taskvault/internal/model" // user record type
	"github.com/iliyamo/taskvault/internal/otp"   // OTP delivery error
	"github.com/iliyamo/taskvault/internal/queue" // registration events
)

// AuthHandler bundles dependencies for the signup and login endpoints.
type AuthHandler struct {
	Auth   *auth.Service
	Events queue.Publisher
}

func NewAuthHandler(a *auth.Service, events queue.Publisher) *AuthHandler {
	return &AuthHandler{Auth: a, Events: events}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type googleReq struct {
	Token string `json:"token"`
}
type otpRequestReq struct {
	Email string `json:"email"`
}
type verifyOtpReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

// userPart is the public shape of an account.  The password hash is
// never part of any response type in this package.
type userPart struct {
	ID           uint64  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	SignupMethod string  `json:"signupMethod"`
	ProfileImage *string `json:"profileImage"`
	IsSuperuser  bool    `json:"isSuperuser"`
}

// sessionResp is the login payload: a bearer token plus the public
// profile summary, mirroring what clients render after sign-in.
type sessionResp struct {
	Token        string  `json:"token"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profileImage"`
	SignupMethod string  `json:"signupMethod"`
	IsSuperuser  bool    `json:"isSuperuser"`
}

func publicUser(u model.User) userPart {
	return userPart{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		SignupMethod: u.SignupMethod,
		ProfileImage: u.ProfileImage,
		IsSuperuser:  u.IsSuperuser,
	}
}

func sessionOf(s auth.Session) sessionResp {
	return sessionResp{
		Token:        s.Token,
		Name:         s.User.Username,
		Email:        s.User.Email,
		ProfileImage: s.User.ProfileImage,
		SignupMethod: s.User.SignupMethod,
		IsSuperuser:  s.User.IsSuperuser,
	}
}

// Signup: create a password account directly.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateAccount) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "account already exists"})
		}
		c.Logger().Errorf("signup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	h.publishRegistered(ctx, u)
	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered", "user": publicUser(u)})
}

// Login: verify credentials and return a session token with the public
// profile summary.  Unknown email and wrong password answer identically.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
		}
		c.Logger().Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	return c.JSON(http.StatusOK, sessionOf(sess))
}

// Google: login or first-time signup with a verified Google ID token.
func (h *AuthHandler) Google(c echo.Context) error {
	var req googleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sess, created, err := h.Auth.GoogleLogin(ctx, req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidIDToken) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid google token"})
		}
		c.Logger().Errorf("google login: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if created {
		h.publishRegistered(ctx, sess.User)
	}
	return c.JSON(http.StatusOK, sessionOf(sess))
}

// SignupOTP: step one of the OTP signup, mails a passcode to the address
// unless an account already exists for it.
func (h *AuthHandler) SignupOTP(c echo.Context) error {
	var req otpRequestReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.RequestSignupOTP(ctx, req.Email); err != nil {
		if errors.Is(err, auth.ErrDuplicateAccount) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "account already exists"})
		}
		// Covers otp.ErrDelivery as well: the challenge is stored but the
		// mail did not go out, which is a server-side failure.
		if errors.Is(err, otp.ErrDelivery) {
			c.Logger().Errorf("otp delivery: %v", err)
		} else {
			c.Logger().Errorf("otp request: %v", err)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not send otp"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "otp sent to email"})
}

// VerifyOTP: step two of the OTP signup, consumes the passcode and
// creates the account.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOtpReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.OTP) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password/otp required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.CompleteSignupOTP(ctx, req.Name, req.Email, req.Password, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidOrExpiredOTP):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired otp"})
		case errors.Is(err, auth.ErrDuplicateAccount):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "account already exists"})
		default:
			c.Logger().Errorf("verify otp: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
		}
	}

	h.publishRegistered(ctx, u)
	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered", "user": publicUser(u)})
}

// publishRegistered emits a user.registered event, best effort: the
// publisher logs its own failures and registration never depends on the
// broker being up.
func (h *AuthHandler) publishRegistered(ctx context.Context, u model.User) {
	if h.Events == nil {
		return
	}
	_ = h.Events.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:       u.ID,
		Email:        u.Email,
		Username:     u.Username,
		SignupMethod: u.SignupMethod,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// reqCtx bounds a handler's store work to five seconds.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
