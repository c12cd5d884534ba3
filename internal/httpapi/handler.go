// Package httpapi serves the dashboard over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"MarketMind/internal/apperror"
	"MarketMind/internal/catalog"
	"MarketMind/internal/collector"
	"MarketMind/internal/export"
	"MarketMind/internal/model"
	"MarketMind/internal/presenter"
	"MarketMind/internal/scheduler"
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.^=\-]{1,15}$`)

// DashboardSource runs one dashboard request.
type DashboardSource interface {
	Collect(ctx context.Context, req collector.Request) (*collector.Dashboard, error)
}

// HealthReporter exposes the provider probe results.
type HealthReporter interface {
	Status() []scheduler.ProbeStatus
	Healthy() bool
}

// Handler serves the dashboard routes.
type Handler struct {
	source        DashboardSource
	catalog       *catalog.Catalog
	health        HealthReporter
	defaultPeriod model.Period
	newsLimit     int
}

// NewHandler creates a Handler. health may be nil when the probe is disabled.
func NewHandler(source DashboardSource, cat *catalog.Catalog, health HealthReporter, defaultPeriod model.Period, newsLimit int) *Handler {
	if defaultPeriod == "" {
		defaultPeriod = model.DefaultPeriod
	}
	return &Handler{
		source:        source,
		catalog:       cat,
		health:        health,
		defaultPeriod: defaultPeriod,
		newsLimit:     newsLimit,
	}
}

type dashboardQuery struct {
	Period string `form:"period"`
	News   int    `form:"news" binding:"omitempty,min=1,max=50"`
}

type periodOption struct {
	Code  model.Period `json:"code"`
	Label string       `json:"label"`
}

// Health reports the provider probe results. It is "degraded" when the
// last probe of any provider failed.
func (h *Handler) Health(c *gin.Context) {
	status := "ok"
	probes := []scheduler.ProbeStatus{}
	if h.health != nil {
		probes = h.health.Status()
		if !h.health.Healthy() {
			status = "degraded"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "probes": probes})
}

// ListTickers returns the catalog in display order with the default symbol.
func (h *Handler) ListTickers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":    h.catalog.All(),
		"default": h.catalog.Default(),
	})
}

// ListPeriods returns the selectable windows.
func (h *Handler) ListPeriods(c *gin.Context) {
	opts := make([]periodOption, len(model.Periods))
	for i, p := range model.Periods {
		opts[i] = periodOption{Code: p, Label: p.Label()}
	}
	c.JSON(http.StatusOK, gin.H{"data": opts, "default": h.defaultPeriod})
}

// parseRequest validates the symbol path parameter and the query string.
func (h *Handler) parseRequest(c *gin.Context) (collector.Request, error) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if !symbolPattern.MatchString(symbol) {
		return collector.Request{}, apperror.WithMessage(apperror.ErrInvalidInput, "Invalid ticker symbol")
	}

	var q dashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return collector.Request{}, apperror.WithMessage(apperror.ErrInvalidInput, "news must be between 1 and 50")
	}

	period := h.defaultPeriod
	if q.Period != "" {
		p, err := model.ParsePeriod(q.Period)
		if err != nil {
			return collector.Request{}, apperror.WithMessage(apperror.ErrInvalidInput, fmt.Sprintf("Unknown period %q", q.Period))
		}
		period = p
	}

	limit := h.newsLimit
	if q.News > 0 {
		limit = q.News
	}
	return collector.Request{Symbol: symbol, Period: period, NewsLimit: limit}, nil
}

func (h *Handler) collect(c *gin.Context, seriesOnly bool) (*collector.Dashboard, bool) {
	req, err := h.parseRequest(c)
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	req.SeriesOnly = seriesOnly

	d, err := h.source.Collect(c.Request.Context(), req)
	if err != nil {
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			err = apperror.Wrap(apperror.ErrProvider, err)
		}
		_ = c.Error(err)
		return nil, false
	}
	return d, true
}

// GetDashboard returns the raw dashboard values and their display view.
func (h *Handler) GetDashboard(c *gin.Context) {
	d, ok := h.collect(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": d,
		"view": presenter.NewView(d),
	})
}

// GetDashboardText renders the dashboard as a plain-text report.
func (h *Handler) GetDashboardText(c *gin.Context) {
	d, ok := h.collect(c, false)
	if !ok {
		return
	}
	var b strings.Builder
	if err := presenter.WriteReport(&b, d); err != nil {
		_ = c.Error(err)
		return
	}
	c.String(http.StatusOK, b.String())
}

// ExportSeries streams the enriched series as a Parquet file.
func (h *Handler) ExportSeries(c *gin.Context) {
	d, ok := h.collect(c, true)
	if !ok {
		return
	}
	if d.Series == nil {
		_ = c.Error(apperror.Wrap(apperror.ErrProvider, errors.New(d.SeriesError)))
		return
	}

	filename := fmt.Sprintf("%s_%s.parquet", d.Symbol, d.Period)
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := export.WriteSeries(c.Writer, d.Symbol, d.Series); err != nil {
		_ = c.Error(err)
	}
}
