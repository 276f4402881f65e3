package middleware

import "net/http"

// Authenticator reports whether the storefront currently holds a logged-in session.
type Authenticator interface {
	Authenticated() bool
}

// RequireSession rejects requests with 401 until a user has logged in.
func RequireSession(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.Authenticated() {
				WriteError(w, r, http.StatusUnauthorized, "not logged in")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
