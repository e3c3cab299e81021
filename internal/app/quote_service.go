// internal/app/quote_service.go
package app

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

var (
	ErrQuotesFileMissing = errors.New("quotes file not found")
	ErrQuotesFileEmpty   = errors.New("quotes file is empty")
)

// QuoteService serves a random quote from a plain text file, one quote per line.
type QuoteService struct {
	path string
}

func NewQuoteService(path string) *QuoteService {
	return &QuoteService{path: path}
}

// Random returns a random non-empty line from the quotes file.
func (s *QuoteService) Random() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrQuotesFileMissing
		}
		return "", fmt.Errorf("failed to read quotes file: %w", err)
	}

	var quotes []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			quotes = append(quotes, line)
		}
	}
	if len(quotes) == 0 {
		return "", ErrQuotesFileEmpty
	}
	return quotes[rand.Intn(len(quotes))], nil
}
