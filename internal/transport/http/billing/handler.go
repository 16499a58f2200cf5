package billing

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/presentation/http/response"
	service "github.com/pratoapp/prato/internal/service/billing"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/pratoapp/prato/transport/http/billing")

// Handler exposes billing endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a billing Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/billing")
	g.POST("/subscriptions", h.chargeSubscription)
}

func (h *Handler) chargeSubscription(c echo.Context) error {
	b := response.New(c)

	var payload dto.ChargeSubscriptionInput
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "billing.chargeSubscription", trace.WithAttributes(
		attribute.Int64("store.id", payload.StoreID),
		attribute.String("billing.plan", payload.PlanID),
	))
	defer span.End()

	charge, err := h.svc.ChargeSubscription(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(charge).Build()
}
