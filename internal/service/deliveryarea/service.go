package deliveryarea

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	repo "github.com/pratoapp/prato/internal/repository/deliveryarea"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/pratoapp/prato/service/deliveryarea")

// Repository is the persistence surface the service depends on.
type Repository interface {
	CreateRadiusArea(ctx context.Context, area *entity.DeliveryAreaRadius) error
	ListRadiusByStore(ctx context.Context, storeID int64) ([]*entity.DeliveryAreaRadius, error)
	CreateZone(ctx context.Context, zone *entity.DeliveryAreaZone) error
	ListZonesByStore(ctx context.Context, storeID int64) ([]*entity.DeliveryAreaZone, error)
}

// Service manages a store's delivery area configuration.
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

// CreateRadiusArea validates and persists a center point with its bands.
// Band distances must be positive and unique within the area; prices must
// not be negative.
func (s *Service) CreateRadiusArea(ctx context.Context, in dto.CreateRadiusAreaInput) (*entity.DeliveryAreaRadius, error) {
	ctx, span := serviceTracer.Start(ctx, "DeliveryAreaService.CreateRadiusArea", trace.WithAttributes(attribute.Int64("store.id", in.StoreID)))
	defer span.End()

	if in.StoreID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}
	if in.CenterLatitude < -90 || in.CenterLatitude > 90 || in.CenterLongitude < -180 || in.CenterLongitude > 180 {
		return nil, errorbank.BadRequest("invalid center coordinates")
	}
	if len(in.Tiers) == 0 {
		return nil, errorbank.BadRequest("at least one fee tier is required")
	}

	seen := make(map[int]bool, len(in.Tiers))
	tiers := make([]*entity.FeeTier, 0, len(in.Tiers))
	for _, tier := range in.Tiers {
		if tier.DistanceKm <= 0 {
			return nil, errorbank.BadRequest("tier distance must be positive")
		}
		if tier.PriceCents < 0 {
			return nil, errorbank.BadRequest("tier price cannot be negative")
		}
		if seen[tier.DistanceKm] {
			return nil, errorbank.BadRequest("tier distances must be unique", errorbank.WithDetail("distance_km", tier.DistanceKm))
		}
		seen[tier.DistanceKm] = true
		tiers = append(tiers, &entity.FeeTier{
			DistanceKm: tier.DistanceKm,
			PriceCents: tier.PriceCents,
		})
	}

	now := time.Now().UTC()
	area := &entity.DeliveryAreaRadius{
		StoreID:         in.StoreID,
		CenterLatitude:  in.CenterLatitude,
		CenterLongitude: in.CenterLongitude,
		CreatedAt:       now,
		UpdatedAt:       now,
		Tiers:           tiers,
	}

	if err := s.repo.CreateRadiusArea(ctx, area); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to create the delivery area", errorbank.WithCause(err))
	}
	return area, nil
}

// ListRadiusByStore returns the store's centers with their bands.
func (s *Service) ListRadiusByStore(ctx context.Context, storeID int64) ([]*entity.DeliveryAreaRadius, error) {
	ctx, span := serviceTracer.Start(ctx, "DeliveryAreaService.ListRadiusByStore", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	if storeID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}

	areas, err := s.repo.ListRadiusByStore(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to list delivery areas", errorbank.WithCause(err))
	}
	return areas, nil
}

// CreateZone validates and persists a flat-fee locality zone. Locality
// strings are normalized so lookups match regardless of input casing.
func (s *Service) CreateZone(ctx context.Context, in dto.CreateZoneInput) (*entity.DeliveryAreaZone, error) {
	ctx, span := serviceTracer.Start(ctx, "DeliveryAreaService.CreateZone", trace.WithAttributes(attribute.Int64("store.id", in.StoreID)))
	defer span.End()

	if in.StoreID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}
	city := repo.Normalize(in.City)
	state := repo.Normalize(in.State)
	if city == "" || state == "" {
		return nil, errorbank.BadRequest("city and state are required")
	}
	if in.FeeCents < 0 {
		return nil, errorbank.BadRequest("zone fee cannot be negative")
	}

	zone := &entity.DeliveryAreaZone{
		StoreID:      in.StoreID,
		City:         city,
		State:        state,
		Neighborhood: repo.Normalize(in.Neighborhood),
		FeeCents:     in.FeeCents,
	}

	if err := s.repo.CreateZone(ctx, zone); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to create the delivery zone", errorbank.WithCause(err))
	}
	return zone, nil
}

// ListZonesByStore returns the store's locality zones.
func (s *Service) ListZonesByStore(ctx context.Context, storeID int64) ([]*entity.DeliveryAreaZone, error) {
	ctx, span := serviceTracer.Start(ctx, "DeliveryAreaService.ListZonesByStore", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	if storeID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}

	zones, err := s.repo.ListZonesByStore(ctx, storeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to list delivery zones", errorbank.WithCause(err))
	}
	return zones, nil
}
