package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/pricing"
)

type PricingServer struct {
	table  *pricing.Table
	logger *slog.Logger
}

func NewPricingServer(table *pricing.Table, logger *slog.Logger) *PricingServer {
	if logger == nil {
		logger = slog.Default()
	}
	if table == nil {
		table = pricing.DefaultTable()
	}
	return &PricingServer{table: table, logger: logger}
}

type priceSheetEntry struct {
	pricing.PriceEntry
	Formatted string `json:"formatted"`
}

// PriceSheet handles GET /api/v1/price-sheet.
func (s *PricingServer) PriceSheet(c *gin.Context) {
	entries := s.table.Entries()
	out := make([]priceSheetEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, priceSheetEntry{PriceEntry: e, Formatted: charges.FormatCurrency(e.UnitPrice)})
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":       out,
		"default_price": pricing.DefaultUnitPrice,
	})
}

// Classify handles POST /api/v1/classify {name}.
func (s *PricingServer) Classify(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 64<<10))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := validateJSON(classifyValidator, body); err != nil {
		writeError(c, err)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(c, common.NewAppError("INVALID_JSON", "decode request", fmt.Errorf("%w: %v", common.ErrInvalidInput, err)))
		return
	}

	cat := pricing.Classify(req.Name)
	c.JSON(http.StatusOK, gin.H{
		"name":       req.Name,
		"category":   cat,
		"unit_price": s.table.PriceFor(cat),
	})
}
