package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/rshah/taskflow/backend/internal/apperr"
)

// Recover catches panics from handlers, logs the stack server-side, and
// renders the standard 500 envelope. The stack never reaches the client in
// production.
func Recover(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Printf("panic: %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
					err := apperr.Database("Internal server error").
						WithCause(fmt.Errorf("panic: %v", rec))
					apperr.Write(w, r, err, production)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
