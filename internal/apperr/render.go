package apperr

import (
	"encoding/json"
	"log"
	"net/http"
)

// envelope is the JSON shape of every error response.
type envelope struct {
	Success bool         `json:"success"`
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Detail  string       `json:"detail,omitempty"`
}

// Write renders err as the standard error envelope. 4xx statuses report
// status "fail", 5xx report "error". Outside production the underlying
// cause is echoed in a detail field; production responses never include it.
func Write(w http.ResponseWriter, r *http.Request, err error, production bool) {
	ae := From(err)

	if ae.Status >= 500 {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}

	status := "fail"
	if ae.Status >= 500 {
		status = "error"
	}

	body := envelope{
		Success: false,
		Status:  status,
		Message: ae.Message,
		Errors:  ae.Fields,
	}
	if !production && ae.cause != nil {
		body.Detail = ae.cause.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.Status)
	json.NewEncoder(w).Encode(body)
}
