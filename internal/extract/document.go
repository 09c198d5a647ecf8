package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	documentPart  = "word/document.xml"
)

// lineItemPattern matches "<qty> - <name>" or "<qty> – <name>" (en dash).
// Word often pads the dash with no-break or thin spaces, hence \p{Zs}.
var lineItemPattern = regexp.MustCompile(`^(\d+)[\s\p{Zs}]*[-–][\s\p{Zs}]*(.+)`)

// DocumentExtractor reads body paragraphs of a .docx file.
type DocumentExtractor struct {
	logger *slog.Logger
}

func NewDocumentExtractor(logger *slog.Logger) *DocumentExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentExtractor{logger: logger}
}

func (e *DocumentExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (ExtractionResult, error) {
	start := time.Now()
	res := ExtractionResult{Format: constants.FormatDocument, Method: "docx"}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	paragraphs, err := readParagraphs(r, size)
	if err != nil {
		return res, fmt.Errorf("%w: docx: %v", ErrUnreadable, err)
	}

	for _, p := range paragraphs {
		line := strings.TrimSpace(p)
		if line == "" {
			continue
		}
		res.Rows++
		if item, ok := ParseLine(line); ok {
			res.Items = append(res.Items, item)
		}
	}
	res.Duration = time.Since(start)

	e.logger.Debug("extract.document.ok",
		"paragraphs", res.Rows,
		"items", len(res.Items),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// ParseLine parses one "<qty> - <name>" paragraph. Lines that do not match
// are reported as !ok.
func ParseLine(line string) (entity.Item, bool) {
	m := lineItemPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return entity.Item{}, false
	}
	qty, err := strconv.Atoi(m[1])
	if err != nil {
		return entity.Item{}, false
	}
	return entity.Item{
		Name:     strings.ToUpper(strings.TrimSpace(m[2])),
		Quantity: qty,
	}, true
}

// readParagraphs returns the text of each top-level body paragraph, in
// document order. Paragraphs nested in tables or text boxes are not included.
func readParagraphs(r io.ReaderAt, size int64) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, errors.New("missing " + documentPart)
	}

	rc, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	dec := xml.NewDecoder(rc)
	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			local := ""
			if t.Name.Space == wordNamespace {
				local = t.Name.Local
			}
			switch {
			case local == "p" && isBodyChild(stack):
				inPara = true
				current.Reset()
			case inPara && local == "t":
				inText = true
			case inPara && local == "tab":
				current.WriteByte('\t')
			case inPara && (local == "br" || local == "cr"):
				current.WriteByte('\n')
			}
			stack = append(stack, local)
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			local := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			switch {
			case local == "t":
				inText = false
			case local == "p" && inPara && isBodyChild(stack):
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}
		case xml.CharData:
			if inPara && inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

// isBodyChild reports whether the element about to open (or just closed)
// sits directly under w:document/w:body.
func isBodyChild(stack []string) bool {
	return len(stack) == 2 && stack[0] == "document" && stack[1] == "body"
}
