package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// BirthdateLayout is the date format users type during registration (DD.MM.YYYY).
const BirthdateLayout = "02.01.2006"

const minBirthYear = 1900

var (
	ErrNameLength        = errors.New("name must be between 2 and 50 characters")
	ErrBirthdateFormat   = errors.New("birthdate must be in DD.MM.YYYY format")
	ErrBirthdateInFuture = errors.New("birthdate cannot be in the future")
	ErrBirthdateTooOld   = errors.New("birth year cannot be earlier than 1900")
)

// ValidateName trims and checks a display name entered during registration.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return "", ErrNameLength
	}
	return name, nil
}

// ParseBirthdate parses and validates a birthdate string against now.
func ParseBirthdate(s string, now time.Time) (time.Time, error) {
	birthdate, err := time.Parse(BirthdateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBirthdateFormat, s)
	}
	if birthdate.After(now) {
		return time.Time{}, ErrBirthdateInFuture
	}
	if birthdate.Year() < minBirthYear {
		return time.Time{}, ErrBirthdateTooOld
	}
	return birthdate, nil
}
