// Package validate provides input validation helpers for TaskFlow.
// Every helper returns a *errors.ValidationError so the failure never
// leaves the command that detected it.
package validate

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/manav03panchal/taskflow/internal/errors"
	"github.com/manav03panchal/taskflow/internal/model"
)

const (
	// MaxTitleLength is the maximum length for a todo title.
	MaxTitleLength = 200
	// MaxDescriptionLength is the maximum length for a todo description.
	MaxDescriptionLength = 4096
	// MinPasswordLength is the length criterion of the strength check.
	MinPasswordLength = 8
	// MinPasswordStrength is how many of the five criteria a signup password must meet.
	MinPasswordStrength = 3
	// OTPLength is the number of digits in a password reset code.
	OTPLength = 6
)

var specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var otpRegex = regexp.MustCompile(`^[0-9]+$`)

// Title validates a todo title.
func Title(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.NewValidationError("title", "cannot be empty")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errors.NewValidationError("title", "must be 200 characters or fewer")
	}
	return nil
}

// Description validates a todo description.
func Description(desc string) error {
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return errors.NewValidationError("description", "must be 4096 characters or fewer")
	}
	return nil
}

// Priority validates a priority name. Empty is allowed (default applies).
func Priority(p string) error {
	if p == "" || model.Priority(p).Valid() {
		return nil
	}
	return errors.NewValidationError("priority", "must be one of low, medium, high")
}

// Category validates a category name. Empty is allowed (default applies).
func Category(c string) error {
	if c == "" || model.Category(c).Valid() {
		return nil
	}
	return errors.NewValidationError("category", "must be one of personal, work, shopping, health, other")
}

// Email validates an email address.
func Email(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.NewValidationError("email", "cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.NewValidationError("email", "is not a valid address")
	}
	return nil
}

// Required rejects the form if any value is blank.
func Required(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return errors.NewValidationError("", "Please fill in all fields")
		}
	}
	return nil
}

// PasswordCriteria reports which strength criteria a password meets.
type PasswordCriteria struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
}

// Strength returns how many criteria are met (0-5).
func (c PasswordCriteria) Strength() int {
	n := 0
	for _, ok := range []bool{c.Length, c.Uppercase, c.Lowercase, c.Number, c.Special} {
		if ok {
			n++
		}
	}
	return n
}

// Label returns a human description of the strength score.
func (c PasswordCriteria) Label() string {
	switch s := c.Strength(); {
	case s <= 2:
		return "Weak"
	case s == 3:
		return "Medium"
	default:
		return "Strong"
	}
}

// CheckPassword evaluates a password against the strength criteria.
func CheckPassword(password string) PasswordCriteria {
	c := PasswordCriteria{Length: len(password) >= MinPasswordLength}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.Uppercase = true
		case unicode.IsLower(r):
			c.Lowercase = true
		case unicode.IsDigit(r):
			c.Number = true
		case strings.ContainsRune(specialChars, r):
			c.Special = true
		}
	}
	return c
}

// PasswordStrength rejects passwords meeting fewer than MinPasswordStrength criteria.
func PasswordStrength(password string) error {
	if CheckPassword(password).Strength() < MinPasswordStrength {
		return errors.NewValidationError("password", "Please use a stronger password")
	}
	return nil
}

// PasswordConfirmation rejects mismatched password and confirmation.
func PasswordConfirmation(password, confirmation string) error {
	if password != confirmation {
		return errors.NewValidationError("password_confirmation", "Passwords do not match")
	}
	return nil
}

// OTP validates a password reset code.
func OTP(otp string) error {
	if len(otp) != OTPLength || !otpRegex.MatchString(otp) {
		return errors.NewValidationError("otp", "must be 6 digits")
	}
	return nil
}

// WebhookURL validates a notification webhook endpoint.
// HTTPS is required except for localhost.
func WebhookURL(rawURL string) error {
	if rawURL == "" {
		return errors.NewValidationError("webhook_url", "cannot be empty")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return errors.NewValidationError("webhook_url", "is not a valid URL")
	}
	host := parsed.Hostname()
	isLocalhost := host == "localhost" || host == "127.0.0.1" || host == "::1"
	switch {
	case parsed.Scheme == "https":
	case parsed.Scheme == "http" && isLocalhost:
	default:
		return errors.NewValidationError("webhook_url", "must use https:// (http:// only for localhost)")
	}
	return nil
}
