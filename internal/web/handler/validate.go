package handler

import (
	"strings"
	"unicode/utf8"
)

// Form validation mirrors the backend's rules so malformed input never
// reaches the network. Field errors render inline next to the offending
// field.

const maxPromptLength = 200

func validatePrompt(prompt string) map[string]string {
	errs := make(map[string]string)
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		errs["prompt"] = "prompt is required"
	} else if utf8.RuneCountInString(trimmed) > maxPromptLength {
		errs["prompt"] = "prompt must be at most 200 characters"
	}
	return errs
}

func validateLogin(username, password string) map[string]string {
	errs := make(map[string]string)
	if utf8.RuneCountInString(username) < 3 {
		errs["username"] = "username must be at least 3 characters"
	}
	if utf8.RuneCountInString(password) < 6 {
		errs["password"] = "password must be at least 6 characters"
	}
	return errs
}

func validateRegister(username, email, password string) map[string]string {
	errs := validateLogin(username, password)
	if !validEmail(email) {
		errs["email"] = "email is invalid"
	}
	return errs
}

// validEmail applies a shape check, not full RFC validation; the
// backend remains the authority.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
