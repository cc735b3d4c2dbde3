package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/db/dbtest"
	svcErr "github.com/oggyb/matchmaker/internal/errors"
	"github.com/oggyb/matchmaker/internal/repository"
)

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer("s3cret", time.Minute)

	tok, err := iss.Issue("user-1")
	require.NoError(t, err)

	sub, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestVerify_Rejects(t *testing.T) {
	iss := NewIssuer("s3cret", time.Minute)

	other, _ := NewIssuer("different", time.Minute).Issue("user-1")
	_, err := iss.Verify(other)
	assert.Error(t, err, "wrong secret")

	expired := NewIssuer("s3cret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _ := expired.Issue("user-1")
	_, err = iss.Verify(old)
	assert.Error(t, err, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = iss.Verify(unsigned)
	assert.Error(t, err, "alg none")

	noSub, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("s3cret"))
	_, err = iss.Verify(noSub)
	assert.Error(t, err, "missing subject")
}

func TestMiddleware(t *testing.T) {
	database := dbtest.New(t)
	users := dbtest.Seed(t, database, 2)
	active, blocked := users[0].ID, users[1].ID
	repo := repository.NewUserRepository(database)
	require.NoError(t, repo.SetStatus(context.Background(), blocked, db.UserBlocked))

	iss := NewIssuer("s3cret", time.Minute)
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		he := svcErr.Map(err)
		_ = c.JSON(he.Code, he.Message)
	}
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, UserID(c))
	}, Middleware(iss, repo))

	token := func(id string) string {
		tok, err := iss.Issue(id)
		require.NoError(t, err)
		return "Bearer " + tok
	}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"unknown user", token("ghost"), http.StatusUnauthorized},
		{"blocked user", token(blocked), http.StatusUnauthorized},
		{"active user", token(active), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, active, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}
