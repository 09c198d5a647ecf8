package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/core"
)

type UploadServer struct {
	processor *core.Processor
	maxBytes  int64
	logger    *slog.Logger
}

func NewUploadServer(p *core.Processor, maxUploadMB int64, logger *slog.Logger) *UploadServer {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &UploadServer{processor: p, maxBytes: maxUploadMB << 20, logger: logger}
}

// Upload handles POST /api/v1/uploads (multipart field "file") and returns
// the editable table for the document.
func (s *UploadServer) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, err)
			return
		}
		writeError(c, common.NewAppError("MISSING_FILE", "multipart field \"file\" is required", common.ErrInvalidInput))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	res, err := s.processor.ProcessFile(c.Request.Context(), fh.Filename, f, fh.Size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
