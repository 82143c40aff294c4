package middleware

import (
	"net/http"
	"strings"
)

// CORS sets the permissive cross-origin headers the submission widget and the
// voice platform expect on every response, and answers OPTIONS preflights
// with no body. extraAllowedHeaders extends the Content-Type allow-list
// (e.g. with webhook signature header names).
func CORS(extraAllowedHeaders ...string) func(http.Handler) http.Handler {
	allowedHeaders := "Content-Type"
	if len(extraAllowedHeaders) > 0 {
		allowedHeaders += ", " + strings.Join(extraAllowedHeaders, ", ")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
