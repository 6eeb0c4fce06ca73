package errors

import (
	"strings"
	"unicode"
)

// Ceilings for screen-sized structures. A skyline wider or taller than this
// is rejected before any grid is allocated.
const (
	MaxWidthCeiling  = 256
	MaxHeightCeiling = 64
)

// ValidateDimensions checks a requested column count and height ceiling.
// A width of zero is accepted and means "derive from the heights".
func ValidateDimensions(width, maxHeight int) error {
	if maxHeight < 1 {
		return New(ErrCodeInvalidConfiguration, "max height must be at least 1, got %d", maxHeight)
	}
	if maxHeight > MaxHeightCeiling {
		return New(ErrCodeInvalidConfiguration, "max height %d exceeds limit of %d", maxHeight, MaxHeightCeiling)
	}
	if width < 0 {
		return New(ErrCodeInvalidConfiguration, "width cannot be negative, got %d", width)
	}
	if width > MaxWidthCeiling {
		return New(ErrCodeInvalidConfiguration, "width %d exceeds limit of %d", width, MaxWidthCeiling)
	}
	return nil
}

// ValidatePath validates an output or input file path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidPath, "path cannot start or end with whitespace")
	}

	return nil
}
