package constants

import "strings"

// Format names the extractor family used for an upload.
type Format string

const (
	FormatTabular  Format = "TABULAR"
	FormatDocument Format = "DOCUMENT"
)

// AllowedExtensions holds the accepted upload extensions, lowercased sans '.'.
var AllowedExtensions = map[string]Format{
	"xls":  FormatTabular,
	"xlsx": FormatTabular,
	"docx": FormatDocument,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether ext (with or without the dot) is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToFormat returns the format for ext, or "" when unsupported.
func MapExtToFormat(ext string) Format {
	return AllowedExtensions[NormalizeExt(ext)]
}
