package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"bankid/pkg/platform/httputil"
	"bankid/pkg/requestcontext"
)

// GetBearerToken retrieves the caller's access token from the context.
func GetBearerToken(r *http.Request) string {
	return requestcontext.BearerToken(r.Context())
}

// RequireBearer rejects requests without a bearer token and stores the token
// for downstream provider calls. The token is not validated here; the
// identity provider is the authority on it.
func RequireBearer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			ctx := requestcontext.WithBearerToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
