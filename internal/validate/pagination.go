package validate

import (
	"net/url"
	"strconv"

	"github.com/rshah/taskflow/backend/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination parses page/limit query parameters, applying defaults and
// bounds (page >= 1, limit in [1,100]). Both failures are reported
// together when both parameters are bad.
func Pagination(q url.Values) (page, limit int, err error) {
	page, limit = DefaultPage, DefaultLimit
	var fields []apperr.FieldError

	if raw := q.Get("page"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			fields = append(fields, apperr.FieldError{
				Field:   "page",
				Message: "must be a positive integer",
				Value:   raw,
			})
		} else {
			page = n
		}
	}

	if raw := q.Get("limit"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 || n > MaxLimit {
			fields = append(fields, apperr.FieldError{
				Field:   "limit",
				Message: "must be an integer between 1 and 100",
				Value:   raw,
			})
		} else {
			limit = n
		}
	}

	if len(fields) > 0 {
		return 0, 0, apperr.Validation("Validation failed", fields)
	}
	return page, limit, nil
}
