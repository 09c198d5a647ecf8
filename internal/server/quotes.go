package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/repository"
)

type QuotesServer struct {
	repo   repository.QuoteRepository
	logger *slog.Logger
}

func NewQuotesServer(repo repository.QuoteRepository, logger *slog.Logger) *QuotesServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotesServer{repo: repo, logger: logger}
}

var errArchiveDisabled = common.NewAppError("ARCHIVE_DISABLED", "quote archive is not configured", common.ErrArchiveDisabled)

// Get handles GET /api/v1/quotes/:id.
func (s *QuotesServer) Get(c *gin.Context) {
	if s.repo == nil {
		writeError(c, errArchiveDisabled)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, common.NewAppError("INVALID_ID", "quote id must be a UUID", common.ErrInvalidInput))
		return
	}
	q, err := s.repo.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// List handles GET /api/v1/quotes?limit=N.
func (s *QuotesServer) List(c *gin.Context) {
	if s.repo == nil {
		writeError(c, errArchiveDisabled)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		writeError(c, common.NewAppError("INVALID_LIMIT", "limit must be an integer", common.ErrInvalidInput))
		return
	}
	quotes, err := s.repo.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": quotes, "count": len(quotes)})
}
