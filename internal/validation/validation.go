// Package validation holds the format rules for user-chosen identifiers.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxUsernameLen  = 150
	MinPasswordLen  = 8
	MaxPasswordLen  = 128
	MaxGroupSlugLen = 50
	MaxEmailLen     = 254
)

var (
	usernameRegex  = regexp.MustCompile(`^[\w.@+-]+$`)
	groupSlugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks the account name format used in profile URLs.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLen)
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("username may contain only letters, digits and @/./+/-/_")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLen)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be blank")
	}
	return nil
}

// ValidateEmail accepts an empty address; email is optional on signup.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLen)
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidateGroupSlug validates the slug used in /groups/:slug URLs.
func ValidateGroupSlug(slug string) error {
	if slug == "" || len(slug) > MaxGroupSlugLen || !groupSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 1-%d letters, digits, hyphens or underscores", MaxGroupSlugLen)
	}
	return nil
}
