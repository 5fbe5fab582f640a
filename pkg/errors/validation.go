package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxSelectorLength bounds selector strings accepted from files and requests.
const maxSelectorLength = 512

// ValidateSelector checks that a selector string is usable by a host.
// It does not parse the selector; hosts report syntax errors themselves.
func ValidateSelector(sel string) error {
	if strings.TrimSpace(sel) == "" {
		return New(ErrCodeInvalidSelector, "selector cannot be empty")
	}
	if len(sel) > maxSelectorLength {
		return New(ErrCodeInvalidSelector, "selector too long (max %d characters)", maxSelectorLength)
	}
	for _, r := range sel {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t' && r != '\n') {
			return New(ErrCodeInvalidSelector, "selector contains invalid control characters")
		}
	}
	return nil
}

// ValidateDimension checks that v is a finite, non-negative length.
// name is used in the error message.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative, got %g", name, v)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It accepts http, https and file schemes, the ones a browser host can open.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, scheme := range []string{"http://", "https://", "file://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use http, https or file scheme")
}
