package order

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	"github.com/pratoapp/prato/internal/presentation/http/response"
	cashsvc "github.com/pratoapp/prato/internal/service/cashregister"
	service "github.com/pratoapp/prato/internal/service/order"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/pratoapp/prato/transport/http/order")

// Handler exposes order and cash register endpoints over HTTP.
type Handler struct {
	svc  *service.Service
	cash *cashsvc.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service, cash *cashsvc.Service) *Handler {
	return &Handler{svc: svc, cash: cash}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.GET("/:id", h.getByID)
	g.GET("/user/:userId", h.listByCustomer)
	g.POST("", h.create)
	g.PATCH("/:id", h.update)
	g.PATCH("/status/:id", h.updateStatus)
	g.POST("/assignorders", h.assignOrders)
	g.POST("/cash-register/open", h.openCashRegister)
	g.POST("/cash-register/close/store/:storeId", h.closeCashRegister)
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) listByCustomer(c echo.Context) error {
	b := response.New(c)

	customerID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid user id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()

	orders, err := h.svc.ListByCustomer(ctx, customerID)
	if err != nil {
		return b.WithError(err).Build()
	}

	payload := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		payload = append(payload, toDTO(order))
	}
	return b.WithData(payload).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.CreateOrderInput
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.Int64("store.id", payload.StoreID),
	))
	defer span.End()

	order, err := h.svc.Create(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(toDTO(order)).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.UpdateOrderInput
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.svc.UpdatePayment(ctx, id, payload); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]int64{"id": id}).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.updateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", payload.Status),
	))
	defer span.End()

	order, err := h.svc.UpdateStatus(ctx, id, payload.Status)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(toDTO(order)).Build()
}

func (h *Handler) assignOrders(c echo.Context) error {
	b := response.New(c)

	var payload dto.AssignOrdersInput
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.assignOrders", trace.WithAttributes(
		attribute.Int64("deliverer.id", payload.DelivererID),
	))
	defer span.End()

	updated, err := h.svc.AssignDeliverer(ctx, payload)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]int64{"assigned": updated}).Build()
}

func (h *Handler) openCashRegister(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		StoreID int64 `json:"store_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.cashRegister.open", trace.WithAttributes(attribute.Int64("store.id", payload.StoreID)))
	defer span.End()

	session, err := h.cash.Open(ctx, payload.StoreID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(map[string]any{"opened_at": session.OpenedAt}).Build()
}

func (h *Handler) closeCashRegister(c echo.Context) error {
	b := response.New(c)

	storeID, err := strconv.ParseInt(c.Param("storeId"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid store id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.cashRegister.close", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	report, err := h.cash.Close(ctx, storeID)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(report).Build()
}

func toDTO(order *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		})
	}
	return dto.OrderResponse{
		ID:              order.ID,
		StoreID:         order.StoreID,
		CustomerID:      order.CustomerID,
		DailyNumber:     order.DailyNumber,
		TotalPriceCents: order.TotalPriceCents,
		Latitude:        order.Latitude,
		Longitude:       order.Longitude,
		PlaceID:         order.PlaceID,
		Type:            order.Type,
		Status:          order.Status,
		PaymentStatus:   order.PaymentStatus,
		PaymentType:     order.PaymentType,
		DelivererID:     order.DelivererID,
		CreatedAt:       order.CreatedAt,
		Items:           items,
	}
}
