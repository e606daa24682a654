package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ErrMessageTooLong is returned when the message length exceeds the maximum.
var ErrMessageTooLong = errors.New("message too long")

// ErrMessageInvalidChars is returned when the message contains control characters.
var ErrMessageInvalidChars = errors.New("message contains invalid characters")

// ValidateMessage trims the input and enforces a rune-length cap and a
// printable-character rule (newlines and tabs allowed). An empty message is
// valid: the pipeline answers it with a canned reply.
func ValidateMessage(input string, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	if maxLen > 0 && len([]rune(s)) > maxLen {
		return "", ErrMessageTooLong
	}
	for _, c := range s {
		if unicode.IsControl(c) && c != '\n' && c != '\t' {
			return "", ErrMessageInvalidChars
		}
	}
	return s, nil
}
