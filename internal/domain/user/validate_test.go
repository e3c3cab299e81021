package user

import (
	"errors"
	"testing"
	"time"
)

func TestValidateName(t *testing.T) {
	if _, err := ValidateName("A"); !errors.Is(err, ErrNameLength) {
		t.Fatalf("single-character name: want ErrNameLength, got %v", err)
	}
	if _, err := ValidateName("  Аня  "); err != nil {
		t.Fatalf("trimmed cyrillic name should pass, got %v", err)
	}
	long := make([]rune, 51)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := ValidateName(string(long)); !errors.Is(err, ErrNameLength) {
		t.Fatalf("51-character name: want ErrNameLength, got %v", err)
	}
	got, err := ValidateName(" Иван ")
	if err != nil || got != "Иван" {
		t.Fatalf("want trimmed %q, got %q err %v", "Иван", got, err)
	}
}

func TestParseBirthdate(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseBirthdate("29.02.2000", now)
	if err != nil {
		t.Fatalf("valid leap birthdate rejected: %v", err)
	}
	if got.Day() != 29 || got.Month() != time.February || got.Year() != 2000 {
		t.Fatalf("unexpected parse result: %v", got)
	}

	if _, err := ParseBirthdate("2000-02-29", now); !errors.Is(err, ErrBirthdateFormat) {
		t.Fatalf("ISO format: want ErrBirthdateFormat, got %v", err)
	}
	if _, err := ParseBirthdate("01.01.2030", now); !errors.Is(err, ErrBirthdateInFuture) {
		t.Fatalf("future date: want ErrBirthdateInFuture, got %v", err)
	}
	if _, err := ParseBirthdate("31.12.1899", now); !errors.Is(err, ErrBirthdateTooOld) {
		t.Fatalf("pre-1900: want ErrBirthdateTooOld, got %v", err)
	}
}
