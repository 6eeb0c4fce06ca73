package sink

import (
	"slices"
	"strings"

	"github.com/matzehuels/watertower/pkg/errors"
)

// Output formats.
const (
	FormatText = "txt"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// Visual styles for the image sinks.
const (
	StyleGrid = "grid"
	StyleFlat = "flat"
)

// Formats lists every supported output format.
var Formats = []string{FormatText, FormatSVG, FormatPNG, FormatJSON}

// Styles lists every supported visual style.
var Styles = []string{StyleGrid, StyleFlat}

// ValidateFormat reports whether format is a supported output format.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unsupported format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateStyle reports whether style is a supported visual style.
func ValidateStyle(style string) error {
	if !slices.Contains(Styles, style) {
		return errors.New(errors.ErrCodeInvalidStyle,
			"unsupported style %q (supported: %s)", style, strings.Join(Styles, ", "))
	}
	return nil
}

// ContentType returns the media type of format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}
