package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gridrr/admin-backend/internal/auth"
)

// SessionResolver resolves a session id to a user id. "" means no session.
type SessionResolver interface {
	Get(ctx context.Context, sessionID string) (string, error)
}

// Paths the guard never touches: static assets, the favicon, the
// verification callback, the health probe, and the JSON API (which carries
// its own RequireAuth).
var guardExclusions = []string{
	"/static/",
	"/favicon.ico",
	"/auth/callback",
	"/health",
	"/api/",
}

// Page prefixes that require a signed-in session.
var protectedPrefixes = []string{
	"/dashboard",
	"/submissions",
	"/upload",
}

func excluded(path string) bool {
	for _, p := range guardExclusions {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func protected(path string) bool {
	for _, p := range protectedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// SessionGuard intercepts page navigations. Unauthenticated requests to a
// protected path are redirected to the sign-in page with the original path
// preserved in redirectedFrom; authenticated requests to the sign-in or
// sign-up pages bounce to the dashboard. Everything else passes through
// unchanged.
func SessionGuard(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if excluded(path) {
				next.ServeHTTP(w, r)
				return
			}

			userID := ""
			if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
				// A resolution failure counts as no session.
				if id, err := sessions.Get(r.Context(), cookie.Value); err == nil {
					userID = id
				}
			}

			if userID == "" && protected(path) {
				redirect := "/signin?redirectedFrom=" + url.QueryEscape(path)
				http.Redirect(w, r, redirect, http.StatusFound)
				return
			}

			if userID != "" && (path == "/signin" || path == "/signup") {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}

			if userID != "" {
				r = r.WithContext(auth.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth validates the session cookie on API routes and injects the
// user id into the request context.
func RequireAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			userID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || userID == "" {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
