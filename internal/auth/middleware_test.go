package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGuardTestEnv(t *testing.T) (*JWT, *Service, *User) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&User{}))

	svc := &Service{DB: gdb}
	u, err := svc.Register(context.Background(), "guard@test.com", "s3cret!")
	require.NoError(t, err)

	return NewJWT("test-secret"), svc, u
}

func TestRequireAuth(t *testing.T) {
	jwtSvc, svc, user := newGuardTestEnv(t)

	validToken, err := jwtSvc.Sign(user.ID)
	require.NoError(t, err)
	expiredToken, err := jwtSvc.sign(user.ID, -time.Hour)
	require.NoError(t, err)
	ghostToken, err := jwtSvc.Sign(user.ID + 999)
	require.NoError(t, err)

	var seen *User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireAuth(jwtSvc, svc)(next)

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, CodeNoToken},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, CodeNoToken},
		{"malformed token", "Bearer not.a.token", http.StatusForbidden, CodeInvalidToken},
		{"expired token", "Bearer " + expiredToken, http.StatusForbidden, CodeExpiredToken},
		{"deleted user", "Bearer " + ghostToken, http.StatusUnauthorized, CodeUserNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Nil(t, seen, "handler must not run on rejection")

			var body struct {
				Message string `json:"message"`
				Code    string `json:"code"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}

	t.Run("valid token", func(t *testing.T) {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen, "handler must receive the resolved identity")
		assert.Equal(t, user.ID, seen.ID)
		assert.Equal(t, user.Email, seen.Email)
	})
}
