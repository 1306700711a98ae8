package noteshare

import (
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// NewStorageKey generates a collision-free object store key for a file.
// The key is "{uuid}_{sanitized file name}", so two uploads of the same
// file name never share a key.
func NewStorageKey(fileName string) string {
	return uuid.New().String() + "_" + SanitizeFileName(fileName)
}

// SanitizeFileName reduces a client-supplied file name to a single safe
// path segment. It strips directory components (both separator styles),
// drops control characters, and replaces whitespace and characters that
// are unsafe in storage keys or URLs with underscores. An empty or
// degenerate result becomes "file".
func SanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)

	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			// tab and newline are whitespace before they are control characters
			b.WriteRune('_')
		case r == 0 || r < 0x20 || r == 0x7f:
			// drop remaining control characters entirely
		case strings.ContainsRune(`/\?#%&"'~`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" || strings.Trim(out, "._") == "" {
		return "file"
	}
	return out
}

// ContentTypeFor infers a content type from a file name suffix,
// falling back to application/octet-stream.
func ContentTypeFor(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// IsPDF reports whether a file name has a .pdf suffix, case-insensitively.
func IsPDF(fileName string) bool {
	return strings.EqualFold(path.Ext(fileName), ".pdf")
}
