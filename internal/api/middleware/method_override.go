package middleware

import (
	"net/http"
	"strings"
)

const methodOverrideParam = "_method"

// MethodOverride lets HTML forms issue PUT, PATCH and DELETE by posting a
// _method query parameter or form field. It wraps the engine because gin
// picks the route before any middleware runs.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			override := r.URL.Query().Get(methodOverrideParam)
			if override == "" {
				override = r.PostFormValue(methodOverrideParam)
			}
			switch method := strings.ToUpper(strings.TrimSpace(override)); method {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}
