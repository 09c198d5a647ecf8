package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
)

// ErrUnreadable marks a document the underlying reader could not open.
var ErrUnreadable = errors.New("unreadable document")

// ItemExtractor turns an uploaded document into ordered (name, quantity) pairs.
type ItemExtractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) (ExtractionResult, error)
}

type ExtractionResult struct {
	Items    []entity.Item
	Format   constants.Format
	Method   string // "xlsx" | "xls" | "docx"
	Rows     int    // rows or paragraphs inspected
	Duration time.Duration
	Warnings []string
}

// ForFilename picks an extractor by file extension. Unsupported extensions
// return an error wrapping common.ErrUnsupportedFormat.
func ForFilename(name string, logger *slog.Logger) (ItemExtractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ext := constants.NormalizeExt(filepath.Ext(name))
	switch ext {
	case "xlsx":
		return NewTabularExtractor(readXLSX, "xlsx", logger), nil
	case "xls":
		return NewTabularExtractor(readXLS, "xls", logger), nil
	case "docx":
		return NewDocumentExtractor(logger), nil
	default:
		return nil, common.NewAppError("UNSUPPORTED_FORMAT", "unsupported file extension "+quoteExt(ext), common.ErrUnsupportedFormat)
	}
}

func quoteExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return "." + ext
}
