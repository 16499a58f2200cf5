package billing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	adapter "github.com/pratoapp/prato/internal/adapter/billing"
	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	storerepo "github.com/pratoapp/prato/internal/repository/store"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/pratoapp/prato/service/billing")

// StoreReader verifies the store being charged exists.
type StoreReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Store, error)
}

// Service charges stores for their platform subscription.
type Service struct {
	gateway adapter.Gateway
	stores  StoreReader
	logger  *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Gateway adapter.Gateway
	Stores  *storerepo.Repository
	Logger  *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{gateway: p.Gateway, stores: p.Stores, logger: p.Logger}
}

// ChargeSubscription verifies the store and issues the gateway charge.
func (s *Service) ChargeSubscription(ctx context.Context, in dto.ChargeSubscriptionInput) (*dto.ChargeSubscriptionResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "BillingService.ChargeSubscription", trace.WithAttributes(attribute.Int64("store.id", in.StoreID)))
	defer span.End()

	if in.StoreID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}

	if _, err := s.stores.GetByID(ctx, in.StoreID); err != nil {
		if errors.Is(err, storerepo.ErrNotFound) {
			return nil, errorbank.NotFound("store not found")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "store lookup failed")
		return nil, errorbank.Internal("failed to load store", errorbank.WithCause(err))
	}

	result, err := s.gateway.ChargeSubscription(ctx, adapter.SubscriptionCharge{
		StoreID:     in.StoreID,
		PlanID:      in.PlanID,
		AmountCents: in.AmountCents,
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("subscription charged",
			zap.Int64("store_id", in.StoreID),
			zap.String("reference", result.Reference),
			zap.String("status", result.Status),
		)
	}
	return &dto.ChargeSubscriptionResponse{Reference: result.Reference, Status: result.Status}, nil
}
