package deliverer

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	repo "github.com/pratoapp/prato/internal/repository/deliverer"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/pratoapp/prato/service/deliverer")

// Repository is the persistence surface the service depends on.
type Repository interface {
	Create(ctx context.Context, d *entity.Deliverer) error
	ListByStore(ctx context.Context, storeID int64) ([]*entity.Deliverer, error)
}

// Service manages a store's couriers.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{repo: p.Repository, logger: p.Logger}
}

// Create registers a courier for a store.
func (s *Service) Create(ctx context.Context, in dto.CreateDelivererInput) (*entity.Deliverer, error) {
	ctx, span := serviceTracer.Start(ctx, "DelivererService.Create", trace.WithAttributes(attribute.Int64("store.id", in.StoreID)))
	defer span.End()

	if in.StoreID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, errorbank.BadRequest("deliverer name is required")
	}

	d := &entity.Deliverer{
		StoreID:      in.StoreID,
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		Vehicle:      strings.TrimSpace(in.Vehicle),
		VehiclePlate: strings.TrimSpace(in.VehiclePlate),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, d); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to create the deliverer", errorbank.WithCause(err))
	}
	return d, nil
}

// ListByStore returns the store's couriers.
func (s *Service) ListByStore(ctx context.Context, storeID int64) ([]*entity.Deliverer, error) {
	ctx, span := serviceTracer.Start(ctx, "DelivererService.ListByStore", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	if storeID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}

	deliverers, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to list deliverers", errorbank.WithCause(err))
	}
	return deliverers, nil
}
