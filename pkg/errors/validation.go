package errors

import (
	"unicode"
)

const (
	maxIdentifierLength = 256
	maxMessageLength    = 4096
	maxPathLength       = 4096
)

// ValidateIdentifier checks a commit ID or branch name received from an
// untrusted source. kind names the field in the error message.
//
// Validation rules:
//   - Cannot be empty
//   - Maximum length of 256 bytes
//   - No control characters or null bytes
//   - No whitespace
func ValidateIdentifier(kind, s string) error {
	if s == "" {
		return New(ErrCodeInvalidGraph, "%s cannot be empty", kind)
	}
	if len(s) > maxIdentifierLength {
		return New(ErrCodeInvalidGraph, "%s too long (max %d characters)", kind, maxIdentifierLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "%s %q contains control characters", kind, s)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidGraph, "%s %q contains whitespace", kind, s)
		}
	}
	return nil
}

// ValidateMessage checks a commit message received from an untrusted source.
// Messages are rendered on a single line, so line breaks are rejected along
// with other control characters.
func ValidateMessage(s string) error {
	if len(s) > maxMessageLength {
		return New(ErrCodeInvalidGraph, "commit message too long (max %d characters)", maxMessageLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidGraph, "commit message contains control characters")
		}
	}
	return nil
}

// ValidatePath checks a local input path such as a graph file or a
// repository directory.
//
// Validation rules:
//   - Cannot be empty
//   - Maximum length of 4096 bytes
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
