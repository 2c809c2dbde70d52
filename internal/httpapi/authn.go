package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"sultan.app/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/v1/auth/login",
	"/v1/auth/refresh",
	"/v1/info",
	"/metrics",
	"/healthz",
	"/readyz",
}

// withAuth authenticates bearer requests and installs an auth.Context
// carrying the user's identity and freshly loaded grants. Requests without a
// valid token only reach the public paths.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if _, pattern := a.mux.Handler(r); pattern == "" || pattern == "/" {
			// No route registered for this path; let the mux answer 404
			// instead of demanding credentials for something that is not
			// there.
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		userID, err := a.signer.Verify(token)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		grants, err := a.grants.GrantsForUser(r.Context(), userID)
		if err != nil {
			handleDomainError(w, r, err)
			return
		}

		actx := auth.NewUserContext(r.Context(), userID, auth.NewPermissionSet(grants))
		next.ServeHTTP(w, r.WithContext(actx))
	})
}

// requestContext recovers the authenticated context installed by withAuth.
// Public paths fall back to an anonymous one.
func requestContext(r *http.Request) auth.Context {
	if actx, ok := r.Context().(auth.Context); ok {
		return actx
	}
	return auth.NewContext(r.Context())
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
