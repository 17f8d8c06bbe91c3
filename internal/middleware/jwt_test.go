package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/taskvault/internal/utils"
)

func callProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, uint64, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	var reached bool
	h := BearerAuth("test-secret")(func(c echo.Context) error {
		reached = true
		gotID, _ = ActorID(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, gotID, reached
}

func TestBearerAuthValidToken(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewSessionToken("test-secret", 99, time.Hour)
	require.NoError(t, err)

	rec, gotID, reached := callProtected(t, "Bearer "+tok)
	require.True(t, reached)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uint64(99), gotID)
}

func TestBearerAuthMissingHeader(t *testing.T) {
	t.Parallel()

	rec, _, reached := callProtected(t, "")
	require.False(t, reached)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerAuthRejectsInvalidTokens(t *testing.T) {
	t.Parallel()

	expired, err := utils.NewSessionToken("test-secret", 1, -time.Minute)
	require.NoError(t, err)
	foreign, err := utils.NewSessionToken("other-secret", 1, time.Hour)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"malformed":    "Bearer not.a.jwt",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + foreign,
		"no scheme":    "Token abc",
	} {
		t.Run(name, func(t *testing.T) {
			rec, _, reached := callProtected(t, header)
			require.False(t, reached)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
