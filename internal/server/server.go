// Package server exposes the charges calculator over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/furniture-charges/internal/common"
	"github.com/joseph-ayodele/furniture-charges/internal/core"
	"github.com/joseph-ayodele/furniture-charges/internal/export"
	"github.com/joseph-ayodele/furniture-charges/internal/repository"
)

const headerRequestID = "X-Request-ID"

// Deps are the collaborators the HTTP layer is built from. DB and Quotes are
// nil when the archive is disabled.
type Deps struct {
	Processor *core.Processor
	Exporter  *export.Service
	Quotes    repository.QuoteRepository
	DB        *repository.DB
	Config    common.ServerConfig
	Logger    *slog.Logger
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Exporter == nil {
		d.Exporter = export.NewService(d.Logger)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	corsConfig := cors.Config{
		AllowOrigins:  d.Config.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", headerRequestID},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", headerRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))
	router.Use(requestContext(d.Logger, d.Config.RequestTimeout))

	uploads := NewUploadServer(d.Processor, d.Config.MaxUploadMB, d.Logger)
	charges := NewChargesServer(d.Processor, d.Exporter, d.Quotes, d.Logger)
	pricing := NewPricingServer(d.Processor.Table(), d.Logger)
	quotes := NewQuotesServer(d.Quotes, d.Logger)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/uploads", uploads.Upload)
		v1.POST("/charges", charges.Calculate)
		v1.POST("/charges/export", charges.Export)
		v1.GET("/price-sheet", pricing.PriceSheet)
		v1.POST("/classify", pricing.Classify)
		v1.GET("/quotes", quotes.List)
		v1.GET("/quotes/:id", quotes.Get)
	}

	router.GET("/healthz", healthHandler(d.DB, d.Logger))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

// requestContext tags each request with an id and a scoped logger, applies
// the request timeout, and logs the outcome.
func requestContext(logger *slog.Logger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(headerRequestID, rid)

		reqLogger := logger.With("request_id", rid)
		ctx := common.WithLogger(common.WithRequestID(c.Request.Context(), rid), reqLogger)
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		reqLogger.Info("http.request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

func healthHandler(db *repository.DB, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, archive, code := "healthy", "disabled", http.StatusOK
		if db != nil {
			archive = "ok"
			if err := repository.HealthCheck(c.Request.Context(), db, 2*time.Second, logger); err != nil {
				status, archive, code = "degraded", "unavailable", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"archive": archive,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, common.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrArchiveDisabled):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	body := gin.H{"error": err.Error()}
	if code := common.CodeOf(err); code != "" {
		body["code"] = code
	}
	if status >= http.StatusInternalServerError {
		common.LoggerFromContext(c.Request.Context(), slog.Default()).Error("http.error", "status", status, "error", err)
		body["error"] = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, body)
}

// ListenAndServe runs h on addr until ctx is done, then drains in-flight
// requests for up to grace.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, grace time.Duration, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http.listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("http.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
