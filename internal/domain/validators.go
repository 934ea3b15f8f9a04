package domain

import (
	"fmt"
	"regexp"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	colorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername checks display name length bounds.
func ValidateUsername(username string) error {
	if len(username) < 2 || len(username) > 24 {
		return fmt.Errorf("username must be 2-24 characters, got %d", len(username))
	}
	return nil
}

// ValidateAvatarColor checks for a #rrggbb hex color.
func ValidateAvatarColor(color string) error {
	if !colorRegex.MatchString(color) {
		return fmt.Errorf("invalid avatar color: %s", color)
	}
	return nil
}

// ValidatePoints checks that a scoring action carries a positive point
// value.
func ValidatePoints(points int) error {
	if points <= 0 {
		return fmt.Errorf("points must be positive, got %d", points)
	}
	return nil
}
