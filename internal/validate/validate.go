// Package validate implements declarative field validation. A rule set is
// plain data (field name, predicate, message); Run evaluates every rule and
// collects all failures rather than stopping at the first, so the client
// gets the complete list of problems in one response.
package validate

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rshah/taskflow/backend/internal/apperr"
)

// emailRe accepts the local@domain.tld shape. Case is normalized before
// the value is checked or stored.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
)

// Rule checks one field of a request. Check returns true when the value is
// acceptable.
type Rule struct {
	Field   string
	Value   any
	Check   func() bool
	Message string
}

// Run evaluates all rules and returns a 400 validation error listing every
// failure, or nil when everything passes.
func Run(rules []Rule) error {
	var fields []apperr.FieldError
	for _, r := range rules {
		if !r.Check() {
			fields = append(fields, apperr.FieldError{
				Field:   r.Field,
				Message: r.Message,
				Value:   r.Value,
			})
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("Validation failed", fields)
	}
	return nil
}

// NormalizeEmail trims whitespace and lowercases the address. Idempotent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email reports whether the (already normalized) address is syntactically
// valid.
func Email(email string) bool {
	return emailRe.MatchString(email)
}

// Password reports whether the password satisfies the strength policy:
// length in [6,128] characters with at least one letter and one digit. The
// same rule applies to registration and password changes.
func Password(pw string) bool {
	n := utf8.RuneCountInString(pw)
	if n < 6 || n > 128 {
		return false
	}
	return hasLetter.MatchString(pw) && hasDigit.MatchString(pw)
}

// EmailRules returns the rule set for a request carrying an email field.
func EmailRules(email string) []Rule {
	return []Rule{{
		Field:   "email",
		Value:   email,
		Check:   func() bool { return Email(email) },
		Message: "must be a valid email address",
	}}
}

// PasswordRules returns the rule set for a password field. The field name
// is parameterized so change-password can report on "newPassword".
func PasswordRules(field, pw string) []Rule {
	return []Rule{{
		Field:   field,
		Value:   "", // never echo passwords back
		Check:   func() bool { return Password(pw) },
		Message: "must be 6-128 characters and contain at least one letter and one number",
	}}
}

// TitleRules validates a (pre-trimmed) task title.
func TitleRules(title string) []Rule {
	return []Rule{{
		Field: "title",
		Value: title,
		Check: func() bool {
			n := utf8.RuneCountInString(title)
			return n >= 1 && n <= 255
		},
		Message: "is required and must be at most 255 characters",
	}}
}

// DescriptionRules validates a (pre-trimmed) optional description.
func DescriptionRules(desc string) []Rule {
	return []Rule{{
		Field:   "description",
		Value:   desc,
		Check:   func() bool { return utf8.RuneCountInString(desc) <= 1000 },
		Message: "must be at most 1000 characters",
	}}
}

// EnumRules validates that value is one of allowed. Empty values pass;
// the caller applies the default.
func EnumRules(field, value string, allowed []string) []Rule {
	return []Rule{{
		Field:   field,
		Value:   value,
		Check:   func() bool { return value == "" || slices.Contains(allowed, value) },
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}}
}
