package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pratoapp/prato/internal/adapter/geocoder"
	"github.com/pratoapp/prato/internal/cache"
	"github.com/pratoapp/prato/internal/config"
	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	"github.com/pratoapp/prato/internal/messaging"
	customerrepo "github.com/pratoapp/prato/internal/repository/customer"
	delivererrepo "github.com/pratoapp/prato/internal/repository/deliverer"
	repo "github.com/pratoapp/prato/internal/repository/order"
	storerepo "github.com/pratoapp/prato/internal/repository/store"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/pratoapp/prato/service/order")

// Repository is the order persistence surface the service depends on.
type Repository interface {
	CreateWithItems(ctx context.Context, o *entity.Order, items []*entity.OrderItem, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdatePayment(ctx context.Context, id int64, paymentStatus, paymentType string) error
	AssignDeliverer(ctx context.Context, storeID int64, orderIDs []int64, delivererID int64) (int64, error)
}

// CustomerReader loads a customer with their delivery address.
type CustomerReader interface {
	GetWithAddress(ctx context.Context, id int64) (*entity.Customer, error)
}

// StoreReader exposes the store's geocoding credentials.
type StoreReader interface {
	GeocoderKey(ctx context.Context, storeID int64) (string, error)
}

// DelivererReader looks up couriers for assignment checks.
type DelivererReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Deliverer, error)
}

// Service encapsulates business logic around orders.
type Service struct {
	repo       Repository
	customers  CustomerReader
	stores     StoreReader
	deliverers DelivererReader
	geocoder   geocoder.Resolver
	cache      cache.Store
	cacheTTL   time.Duration
	country    string
	logger     *zap.Logger
	publisher  messaging.Client
	messaging  messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Customers  *customerrepo.Repository
	Stores     *storerepo.Repository
	Deliverers *delivererrepo.Repository
	Geocoder   geocoder.Resolver
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:       p.Repository,
		customers:  p.Customers,
		stores:     p.Stores,
		deliverers: p.Deliverers,
		geocoder:   p.Geocoder,
		cache:      p.Cache,
		cacheTTL:   p.Config.Cache.DefaultTTL,
		country:    p.Config.Geocoder.Country,
		logger:     p.Logger,
		publisher:  p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Create validates the input, geocodes the customer's address and persists
// the order, its items and the receipt atomically. The daily number is
// assigned inside the transaction.
func (s *Service) Create(ctx context.Context, in dto.CreateOrderInput) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.Int64("store.id", in.StoreID),
		attribute.Int64("customer.id", in.CustomerID),
	))
	defer span.End()

	if err := validateCreate(in); err != nil {
		return nil, err
	}

	var (
		customer *entity.Customer
		apiKey   string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customer, err = s.customers.GetWithAddress(gctx, in.CustomerID)
		return err
	})
	g.Go(func() error {
		var err error
		apiKey, err = s.stores.GeocoderKey(gctx, in.StoreID)
		return err
	})
	if err := g.Wait(); err != nil {
		switch {
		case errors.Is(err, customerrepo.ErrNotFound), errors.Is(err, customerrepo.ErrNoAddress):
			return nil, errorbank.NotFound("customer address not found")
		case errors.Is(err, storerepo.ErrNotFound):
			return nil, errorbank.NotFound("store not found")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "lookup failed")
		return nil, errorbank.Internal("failed to load order context", errorbank.WithCause(err))
	}

	location, err := s.geocoder.Resolve(ctx, geocoder.FormatAddress(customer.Address, s.country), apiKey)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &entity.Order{
		StoreID:         in.StoreID,
		CustomerID:      in.CustomerID,
		TotalPriceCents: totalPriceCents(in.Items),
		Latitude:        location.Latitude,
		Longitude:       location.Longitude,
		PlaceID:         location.PlaceID,
		Type:            in.Type,
		Status:          in.Status,
		PaymentStatus:   in.PaymentStatus,
		PaymentType:     in.PaymentType,
		CreatedAt:       now,
	}

	items := make([]*entity.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, &entity.OrderItem{
			ProductID:  item.ProductID,
			PriceCents: item.PriceCents,
			Quantity:   item.Quantity,
		})
	}

	receipt := &entity.Receipt{
		ReceiptNumber: uuid.NewString(),
		CreatedAt:     now,
	}

	if err := s.repo.CreateWithItems(ctx, order, items, receipt); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("could not create the order", errorbank.WithCause(err))
	}
	order.Items = items

	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Int64("id", order.ID), zap.Error(err))
		}
	}

	s.publish(ctx, EventOrderCreated, OrderCreatedEvent{
		ID:              order.ID,
		StoreID:         order.StoreID,
		DailyNumber:     order.DailyNumber,
		TotalPriceCents: order.TotalPriceCents,
		Status:          order.Status,
		CreatedAt:       order.CreatedAt,
	})
	return order, nil
}

func validateCreate(in dto.CreateOrderInput) error {
	if in.CustomerID == 0 {
		return errorbank.Unauthorized("sign in to place an order")
	}
	if in.StoreID == 0 {
		return errorbank.BadRequest("store is required")
	}
	if !IsValidType(in.Type) {
		return errorbank.BadRequest("unknown order type")
	}
	if !IsValidStatus(in.Status) {
		return errorbank.BadRequest("unknown order status")
	}
	if in.PaymentStatus == "" || in.PaymentType == "" {
		return errorbank.BadRequest("payment status and type are required")
	}
	if len(in.Items) == 0 {
		return errorbank.BadRequest("order needs at least one item")
	}
	for _, item := range in.Items {
		if item.ProductID == 0 || item.Quantity <= 0 || item.PriceCents < 0 {
			return errorbank.BadRequest("invalid order item")
		}
	}
	return nil
}

// totalPriceCents trusts the submitted line snapshots, not live catalog
// prices.
func totalPriceCents(items []dto.OrderItemInput) int64 {
	var total int64
	for _, item := range items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	return order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()

	if customerID == 0 {
		return nil, errorbank.Unauthorized("sign in to list orders")
	}

	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// UpdateStatus moves an order through its lifecycle, rejecting transitions
// the machine does not allow.
func (s *Service) UpdateStatus(ctx context.Context, id int64, requested string) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.requested_status", requested),
	))
	defer span.End()

	if !IsValidStatus(requested) {
		return nil, errorbank.BadRequest("unknown order status")
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if !CanTransition(order.Status, requested) {
		return nil, errorbank.Unprocessable(
			fmt.Sprintf("order cannot move from %s to %s", order.Status, requested),
			errorbank.WithDetail("current_status", order.Status),
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, requested); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order status", errorbank.WithCause(err))
	}

	s.dropFromCache(ctx, id)
	s.publish(ctx, EventOrderStatusChanged, OrderStatusChangedEvent{
		OrderID: id,
		From:    order.Status,
		To:      requested,
		At:      time.Now().UTC(),
	})

	order.Status = requested
	return order, nil
}

// UpdatePayment mutates the payment fields of an order.
func (s *Service) UpdatePayment(ctx context.Context, id int64, in dto.UpdateOrderInput) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdatePayment", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if in.PaymentStatus == "" || in.PaymentType == "" {
		return errorbank.BadRequest("payment status and type are required")
	}

	if err := s.repo.UpdatePayment(ctx, id, in.PaymentStatus, in.PaymentType); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}

	s.dropFromCache(ctx, id)
	return nil
}

// AssignDeliverer attaches a courier to a batch of the store's orders,
// verifying the courier actually belongs to the store first.
func (s *Service) AssignDeliverer(ctx context.Context, in dto.AssignOrdersInput) (int64, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.AssignDeliverer", trace.WithAttributes(
		attribute.Int64("store.id", in.StoreID),
		attribute.Int64("deliverer.id", in.DelivererID),
	))
	defer span.End()

	if in.StoreID == 0 || in.DelivererID == 0 || len(in.OrderIDs) == 0 {
		return 0, errorbank.BadRequest("store, deliverer and order ids are required")
	}

	courier, err := s.deliverers.GetByID(ctx, in.DelivererID)
	if err != nil {
		if errors.Is(err, delivererrepo.ErrNotFound) {
			return 0, errorbank.NotFound("deliverer not found")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return 0, errorbank.Internal("failed to load deliverer", errorbank.WithCause(err))
	}
	if courier.StoreID != in.StoreID {
		return 0, errorbank.NotFound("deliverer not found")
	}

	updated, err := s.repo.AssignDeliverer(ctx, in.StoreID, in.OrderIDs, in.DelivererID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return 0, errorbank.Internal("failed to assign orders", errorbank.WithCause(err))
	}

	for _, id := range in.OrderIDs {
		s.dropFromCache(ctx, id)
	}
	return updated, nil
}

func (s *Service) publish(ctx context.Context, eventType string, payload any) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order event", zap.String("type", eventType), zap.Error(err))
		}
		return
	}
	envelope, err := json.Marshal(Event{Type: eventType, Payload: body})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order event envelope", zap.String("type", eventType), zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte(eventType), envelope); err != nil {
		if s.logger != nil {
			s.logger.Error("publish order event", zap.String("type", eventType), zap.Error(err))
		}
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if s.cache == nil || order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}

func (s *Service) dropFromCache(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil && s.logger != nil {
		s.logger.Warn("orders cache delete failed", zap.Int64("id", id), zap.Error(err))
	}
}

// Event types published on the orders topic.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the envelope wrapping every message on the orders topic.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OrderCreatedEvent is emitted when a new order is persisted.
type OrderCreatedEvent struct {
	ID              int64     `json:"id"`
	StoreID         int64     `json:"store_id"`
	DailyNumber     int       `json:"daily_number"`
	TotalPriceCents int64     `json:"total_price_cents"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// OrderStatusChangedEvent is emitted after a lifecycle transition commits.
type OrderStatusChangedEvent struct {
	OrderID int64     `json:"order_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}
