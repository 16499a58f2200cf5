package deliveryarea

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/presentation/http/response"
	service "github.com/pratoapp/prato/internal/service/deliveryarea"
	feesvc "github.com/pratoapp/prato/internal/service/deliveryfee"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/pratoapp/prato/transport/http/deliveryarea")

// Handler exposes delivery area configuration and fee quoting over HTTP.
type Handler struct {
	svc *service.Service
	fee *feesvc.Service
}

// NewHandler constructs a delivery area Handler.
func NewHandler(svc *service.Service, fee *feesvc.Service) *Handler {
	return &Handler{svc: svc, fee: fee}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/deliveryareas")
	g.POST("", h.createRadiusArea)
	g.GET("/store/:storeId", h.listRadiusByStore)
	g.POST("/zones", h.createZone)
	g.GET("/zones/store/:storeId", h.listZonesByStore)

	e.GET("/deliveryareaskm/user/:userId", h.quote)
}

func (h *Handler) createRadiusArea(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateRadiusAreaInput
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveryareas.createRadius", trace.WithAttributes(attribute.Int64("store.id", payload.StoreID)))
	defer span.End()

	area, err := h.svc.CreateRadiusArea(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(area).Build()
}

func (h *Handler) listRadiusByStore(c echo.Context) error {
	b := response.New(c)

	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid store id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveryareas.listRadius", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	areas, err := h.svc.ListRadiusByStore(ctx, storeID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(areas).Build()
}

func (h *Handler) createZone(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateZoneInput
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveryareas.createZone", trace.WithAttributes(attribute.Int64("store.id", payload.StoreID)))
	defer span.End()

	zone, err := h.svc.CreateZone(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(zone).Build()
}

func (h *Handler) listZonesByStore(c echo.Context) error {
	b := response.New(c)

	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid store id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveryareas.listZones", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	zones, err := h.svc.ListZonesByStore(ctx, storeID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(zones).Build()
}

func (h *Handler) quote(c echo.Context) error {
	b := response.New(c)

	customerID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid user id", errorbank.WithCause(err))).Build()
	}
	storeID, err := strconv.ParseInt(c.QueryParam("storeId"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid store id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "deliveryareas.quote", trace.WithAttributes(
		attribute.Int64("customer.id", customerID),
		attribute.Int64("store.id", storeID),
	))
	defer span.End()

	quote, err := h.fee.Resolve(ctx, customerID, storeID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.DeliveryQuoteResponse{
		FeeCents:   quote.FeeCents,
		DistanceKm: quote.DistanceKm,
		Message:    quote.Message,
	}).Build()
}
