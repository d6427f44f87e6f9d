package middleware

import (
	"log"
	"net/http"

	"github.com/VishalDET/mcflassets-sub000/utils"
)

// RecoveryMiddleware turns a handler panic into a 500 JSON error instead of
// a dropped connection.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic in %s %s: %v", r.Method, r.URL.Path, rec)
				utils.RespondWithError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
