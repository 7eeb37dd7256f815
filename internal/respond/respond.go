// Package respond centralizes success-envelope JSON rendering. Error
// rendering lives in apperr.Write so both sides of the contract stay in
// one place each.
package respond

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Data wraps payload in the standard {success:true, data} envelope.
func Data(w http.ResponseWriter, status int, payload any) {
	JSON(w, status, map[string]any{
		"success": true,
		"data":    payload,
	})
}

// Message wraps an informational message in the success envelope.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{
		"success": true,
		"message": msg,
	})
}
