package deliverer

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/presentation/http/response"
	service "github.com/pratoapp/prato/internal/service/deliverer"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/pratoapp/prato/transport/http/deliverer")

// Handler exposes deliverer endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a deliverer Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/deliverers")
	g.POST("", h.create)
	g.GET("/store/:storeId", h.listByStore)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateDelivererInput
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliverers.create", trace.WithAttributes(attribute.Int64("store.id", payload.StoreID)))
	defer span.End()

	courier, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(courier).Build()
}

func (h *Handler) listByStore(c echo.Context) error {
	b := response.New(c)

	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid store id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliverers.listByStore", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	couriers, err := h.svc.ListByStore(ctx, storeID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(couriers).Build()
}
