package httptransport

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/metrics"
	"github.com/NastyaGoryachaya/shabbat-guard-bot/internal/service/schedule"
	"github.com/labstack/echo/v4"
)

// StatusService is the engine surface the admin API reads from.
type StatusService interface {
	Snapshot(ctx context.Context) []schedule.TenantStatus
	RunCycle(ctx context.Context)
}

// Tenant - DTO for the admin tenant listing.
type Tenant struct {
	TenantID              string     `json:"tenant_id"`
	LocationID            string     `json:"location_id"`
	DisplayLocation       string     `json:"display_location"`
	HavdalahOffsetMinutes int        `json:"havdalah_offset_minutes"`
	LockAt                *time.Time `json:"lock_at,omitempty"`
	UnlockAt              *time.Time `json:"unlock_at,omitempty"`
	RefreshAt             *time.Time `json:"refresh_at,omitempty"`
	RetryAt               *time.Time `json:"retry_at,omitempty"`
}

func makeTenant(st schedule.TenantStatus) Tenant {
	return Tenant{
		TenantID:              st.Config.TenantID,
		LocationID:            st.Config.LocationID,
		DisplayLocation:       st.Config.DisplayLocation,
		HavdalahOffsetMinutes: st.Config.HavdalahOffsetMinutes,
		LockAt:                st.LockAt,
		UnlockAt:              st.UnlockAt,
		RefreshAt:             st.RefreshAt,
		RetryAt:               st.RetryAt,
	}
}

// AdminHandler - HTTP handler for the status/admin surface.
type AdminHandler struct {
	logger  *slog.Logger
	svc     StatusService
	timeout time.Duration
}

func NewAdminHandler(logger *slog.Logger, svc StatusService, timeout time.Duration) *AdminHandler {
	if timeout <= 0 {
		timeout = time.Second * 3
	}
	return &AdminHandler{
		logger:  logger,
		svc:     svc,
		timeout: timeout,
	}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/tenants", h.GetTenants)
	e.POST("/cycle", h.RunCycle)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

func (h *AdminHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *AdminHandler) GetTenants(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	items := h.svc.Snapshot(ctx)
	out := make([]Tenant, 0, len(items))
	for _, item := range items {
		out = append(out, makeTenant(item))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) RunCycle(c echo.Context) error {
	// the cycle touches the provider per tenant; don't hold the request open
	go h.svc.RunCycle(context.Background())
	h.logger.Info("cycle re-run requested via admin API")
	return c.JSON(http.StatusAccepted, echo.Map{"status": "scheduled"})
}
