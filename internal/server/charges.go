package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/core"
	"github.com/joseph-ayodele/furniture-charges/internal/entity"
	"github.com/joseph-ayodele/furniture-charges/internal/export"
	"github.com/joseph-ayodele/furniture-charges/internal/repository"
)

const maxChargesBody = 4 << 20

// rowInput is one edited table row. Omitted fields are filled the same way an
// upload fills them: category by classifier, price by table, duration by default.
// Counts decode as float64 so integral values written as 2.0 are accepted.
type rowInput struct {
	Name                  string           `json:"name"`
	Quantity              float64          `json:"quantity"`
	Category              string           `json:"category"`
	UnitPrice             *decimal.Decimal `json:"unit_price"`
	StorageDurationMonths *float64         `json:"storage_duration_months"`
}

type chargesRequest struct {
	Items  []rowInput `json:"items"`
	Source string     `json:"source"`
	Title  string     `json:"title"`
	Save   bool       `json:"save"`
}

type formattedTotals struct {
	Receiving string `json:"receiving"`
	Storage   string `json:"storage"`
}

type chargesResponse struct {
	charges.Result
	Formatted formattedTotals `json:"formatted"`
	QuoteID   string          `json:"quote_id,omitempty"`
}

type ChargesServer struct {
	processor *core.Processor
	exporter  *export.Service
	quotes    repository.QuoteRepository
	logger    *slog.Logger
}

func NewChargesServer(p *core.Processor, e *export.Service, quotes repository.QuoteRepository, logger *slog.Logger) *ChargesServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChargesServer{processor: p, exporter: e, quotes: quotes, logger: logger}
}

// Calculate handles POST /api/v1/charges.
func (s *ChargesServer) Calculate(c *gin.Context) {
	req, err := s.bind(c)
	if err != nil {
		writeError(c, err)
		return
	}
	ctx := c.Request.Context()

	res := s.processor.Calculate(ctx, s.toLineItems(req.Items))
	out := chargesResponse{
		Result: res,
		Formatted: formattedTotals{
			Receiving: charges.FormatCurrency(res.Totals.Receiving),
			Storage:   charges.FormatCurrency(res.Totals.Storage),
		},
	}

	if req.Save {
		if s.quotes == nil {
			writeError(c, errArchiveDisabled)
			return
		}
		q, err := s.quotes.Save(ctx, req.Source, res)
		if err != nil {
			writeError(c, err)
			return
		}
		out.QuoteID = q.ID.String()
	}

	c.JSON(http.StatusOK, out)
}

// Export handles POST /api/v1/charges/export?format=xlsx|pdf.
func (s *ChargesServer) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatXLSX)))
	if err != nil {
		writeError(c, common.NewAppError("INVALID_FORMAT", err.Error(), common.ErrInvalidInput))
		return
	}
	req, err := s.bind(c)
	if err != nil {
		writeError(c, err)
		return
	}
	ctx := c.Request.Context()

	res := s.processor.Calculate(ctx, s.toLineItems(req.Items))
	data, err := s.exporter.Export(ctx, format, req.Title, res)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="charges.%s"`, format))
	c.Data(http.StatusOK, format.ContentType(), data)
}

func (s *ChargesServer) bind(c *gin.Context) (chargesRequest, error) {
	var req chargesRequest
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxChargesBody))
	if err != nil {
		return req, err
	}
	if err := validateJSON(chargesValidator, body); err != nil {
		return req, err
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, common.NewAppError("INVALID_JSON", "decode request", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	return req, nil
}

func (s *ChargesServer) toLineItems(in []rowInput) []entity.LineItem {
	rows := make([]entity.LineItem, len(in))
	for i, r := range in {
		it := entity.Item{Name: strings.TrimSpace(r.Name), Quantity: int(r.Quantity)}
		var cat constants.Category
		if strings.TrimSpace(r.Category) != "" {
			cat = categoryOf(r.Category)
		}
		rows[i] = s.processor.Row(it, cat)
		if r.UnitPrice != nil {
			rows[i].UnitPrice = *r.UnitPrice
		}
		if r.StorageDurationMonths != nil {
			rows[i].StorageDurationMonths = int(*r.StorageDurationMonths)
		}
	}
	return rows
}

// categoryOf keeps unknown labels as given so the table's default price
// applies to them.
func categoryOf(label string) constants.Category {
	if c, ok := constants.Canonicalize(label); ok {
		return c
	}
	return constants.Category(strings.ToUpper(strings.TrimSpace(label)))
}
