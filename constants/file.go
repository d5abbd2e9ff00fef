package constants

import "strings"

// PDF is the only document format the quote parser reads.
const PDF = "PDF"

// AllowedExtensions holds the default allowed file extensions for quote discovery.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the document format for a normalized extension, or "" if unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	default:
		return ""
	}
}
