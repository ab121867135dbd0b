package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type companyIDKey struct{}

// RequireCompany resolves the caller's company from the token and stores it in
// the request context. Every check-clock query is scoped by this value.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		companyID, ok := claims["company_id"].(string)
		if !ok || companyID == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		ctx := context.WithValue(r.Context(), companyIDKey{}, companyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CompanyIDFromContext returns the company stored by RequireCompany.
func CompanyIDFromContext(ctx context.Context) string {
	companyID, _ := ctx.Value(companyIDKey{}).(string)
	return companyID
}
