package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newProtectedRouter(jwtService *jwt.JWTService, permission user.Permission) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(AuthRequired(jwtService))
		r.Use(RequireCompany)
		r.With(RequirePermission(permission)).Get("/protected", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Company", CompanyIDFromContext(r.Context()))
			w.Header().Set("X-Role", string(RoleFromContext(r)))
			w.Header().Set("X-Employee", EmployeeIDFromContext(r))
			w.WriteHeader(http.StatusNoContent)
		})
	})
	return r
}

func doRequest(router http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_Chain(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-secret", time.Hour)
	router := newProtectedRouter(jwtService, user.PermissionAttendanceApprove)

	managerToken, _, err := jwtService.GenerateAccessToken("user-1", "m@example.com", strPtr("emp-1"), strPtr("company-1"), user.RoleManager)
	require.NoError(t, err)
	employeeToken, _, err := jwtService.GenerateAccessToken("user-2", "e@example.com", strPtr("emp-2"), strPtr("company-1"), user.RoleEmployee)
	require.NoError(t, err)
	noCompanyToken, _, err := jwtService.GenerateAccessToken("user-3", "n@example.com", nil, nil, user.RoleAdmin)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, "not-a-jwt").Code)
	})

	t.Run("manager allowed", func(t *testing.T) {
		rec := doRequest(router, managerToken)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "company-1", rec.Header().Get("X-Company"))
		assert.Equal(t, "manager", rec.Header().Get("X-Role"))
		assert.Equal(t, "emp-1", rec.Header().Get("X-Employee"))
	})

	t.Run("employee lacks permission", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, doRequest(router, employeeToken).Code)
	})

	t.Run("no company", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, doRequest(router, noCompanyToken).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		token, exp, err := jwtService.GenerateAccessToken("user-4", "r@example.com", nil, strPtr("company-1"), user.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, http.StatusNoContent, doRequest(router, token).Code)

		jwtService.RevokeToken(token, exp)
		assert.Equal(t, http.StatusUnauthorized, doRequest(router, token).Code)
	})
}
