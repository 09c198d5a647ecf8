package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/furniture-charges/constants"
)

// AllowedExt checks if a file path or extension is one the extractors accept.
// Results workbooks are never picked up again.
func AllowedExt(path string) bool {
	return constants.IsAllowedExt(filepath.Ext(path)) && !IsOutput(path)
}

// IsHidden checks if a file or directory is hidden (starts with '.').
// Office lock files ("~$book.xlsx") count as hidden too.
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}

const outputSuffix = ".charges.xlsx"

// OutputName is the results workbook name written for a source file.
func OutputName(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base)) + outputSuffix
}

// IsOutput reports whether path is a results workbook this package wrote.
func IsOutput(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), outputSuffix)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
