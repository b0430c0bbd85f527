// Package validation checks user payloads submitted to the API.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dtroode/userintake/internal/model"
)

const (
	minNameLength = 2
	maxNameLength = 100
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	// whitespace here is any Unicode space, including NBSP, \v and the
	// \x1c-\x1f separators
	namePattern  = regexp.MustCompile(`^[A-Za-z\s\v\x1c-\x1f\x{85}\p{Z}'-]+$`)
)

// Failure reasons returned by ValidateName and ValidateUserData.
const (
	ReasonNotObject    = "Request body must be a JSON object"
	ReasonMissingEmail = "Missing required field: email"
	ReasonMissingName  = "Missing required field: name"
	ReasonInvalidEmail = "Invalid email format"
	ReasonNameEmpty    = "Name must be a non-empty string"
	ReasonNameTooShort = "Name must be at least 2 characters long"
	ReasonNameTooLong  = "Name must not exceed 100 characters"
	ReasonNameCharset  = "Name contains invalid characters"
)

// ValidateEmail reports whether v is a non-empty string shaped like
// local@domain.tld. Values of any other type fail.
func ValidateEmail(v any) bool {
	email, ok := v.(string)
	if !ok || email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// ValidateName checks v against the name rules and returns the message of the
// first rule it breaks.
func ValidateName(v any) (bool, string) {
	name, ok := v.(string)
	if !ok || name == "" {
		return false, ReasonNameEmpty
	}

	name = strings.TrimSpace(name)
	length := utf8.RuneCountInString(name)
	if length < minNameLength {
		return false, ReasonNameTooShort
	}
	if length > maxNameLength {
		return false, ReasonNameTooLong
	}
	if !namePattern.MatchString(name) {
		return false, ReasonNameCharset
	}

	return true, ""
}

// ValidateUserData validates a decoded JSON payload. On success it returns the
// normalized user.
func ValidateUserData(payload any) (bool, string, model.ValidatedUser) {
	data, ok := payload.(map[string]any)
	if !ok {
		return false, ReasonNotObject, model.ValidatedUser{}
	}

	email, ok := data["email"]
	if !ok {
		return false, ReasonMissingEmail, model.ValidatedUser{}
	}
	name, ok := data["name"]
	if !ok {
		return false, ReasonMissingName, model.ValidatedUser{}
	}

	if !ValidateEmail(email) {
		return false, ReasonInvalidEmail, model.ValidatedUser{}
	}
	if valid, reason := ValidateName(name); !valid {
		return false, reason, model.ValidatedUser{}
	}

	// both are strings at this point
	return true, "", model.ValidatedUser{
		Email: strings.ToLower(strings.TrimSpace(email.(string))),
		Name:  strings.TrimSpace(name.(string)),
	}
}
