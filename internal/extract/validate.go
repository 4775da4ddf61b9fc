package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxHeadingRunes = 200

var ErrEmptyHeading = errors.New("heading is required")

// ValidateHeading checks a caller-supplied heading. The heading is only ever
// embedded as a quoted literal, so any printable text is acceptable.
func ValidateHeading(heading string) error {
	h := strings.TrimSpace(heading)
	if h == "" {
		return ErrEmptyHeading
	}
	if n := utf8.RuneCountInString(h); n > MaxHeadingRunes {
		return fmt.Errorf("heading too long: %d characters (max %d)", n, MaxHeadingRunes)
	}
	if strings.IndexFunc(h, unicode.IsControl) >= 0 {
		return fmt.Errorf("heading contains control characters")
	}
	return nil
}
