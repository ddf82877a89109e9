package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds catalog and instance identifiers.
const maxIDLength = 128

// ValidateID validates a catalog or instance identifier supplied from
// outside the engine (CLI arguments, catalog files, imported rooms).
//
// The rules are conservative:
//   - No empty ids
//   - No control characters or whitespace
//   - No quotes, commas or path separators
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "%s id too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "%s id contains invalid characters", kind)
		}
	}
	if strings.ContainsAny(id, `"',/\`) {
		return New(ErrCodeInvalidID, "%s id contains invalid characters: %q", kind, id)
	}
	return nil
}

// ValidateImageURL validates a room background image reference.
// Uploaded images arrive as http(s) URLs, data URLs, blob URLs or
// site-relative paths.
func ValidateImageURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidURL, "image URL cannot be empty")
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidURL, "image URL contains control characters")
		}
	}
	for _, prefix := range []string{"http://", "https://", "data:image/", "blob:", "/"} {
		if strings.HasPrefix(rawURL, prefix) {
			return nil
		}
	}
	return New(ErrCodeInvalidURL, "image URL must be http(s), data:image, blob or a site path")
}

// ValidateOrigin validates the origin used to build share links.
func ValidateOrigin(origin string) error {
	if origin == "" {
		return New(ErrCodeInvalidURL, "origin cannot be empty")
	}
	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		return New(ErrCodeInvalidURL, "origin must use http or https scheme")
	}
	if strings.ContainsAny(origin, "?#") {
		return New(ErrCodeInvalidURL, "origin cannot contain a query or fragment")
	}
	return nil
}
