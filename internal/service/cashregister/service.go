package cashregister

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/cache"
	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	repo "github.com/pratoapp/prato/internal/repository/cashregister"
	orderrepo "github.com/pratoapp/prato/internal/repository/order"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/pratoapp/prato/service/cashregister")

// SessionStore persists open/close accounting sessions.
type SessionStore interface {
	Open(ctx context.Context, storeID int64, openedAt time.Time) (*entity.CashRegisterSession, error)
	FindOpen(ctx context.Context, storeID int64) (*entity.CashRegisterSession, error)
	Close(ctx context.Context, sessionID int64, closedAt time.Time) error
}

// OrderAggregator sums orders inside an accounting window.
type OrderAggregator interface {
	AggregateWindow(ctx context.Context, storeID int64, from, to time.Time) (*orderrepo.WindowAggregate, error)
}

// Service runs the open/close cash register cycle per store.
type Service struct {
	sessions SessionStore
	orders   OrderAggregator
	cache    cache.Store
	logger   *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Sessions *repo.Repository
	Orders   *orderrepo.Repository
	Cache    cache.Store
	Logger   *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		sessions: p.Sessions,
		orders:   p.Orders,
		cache:    p.Cache,
		logger:   p.Logger,
	}
}

// Open starts a new accounting window for the store.
func (s *Service) Open(ctx context.Context, storeID int64) (*entity.CashRegisterSession, error) {
	ctx, span := serviceTracer.Start(ctx, "CashRegisterService.Open", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	if storeID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}

	session, err := s.sessions.Open(ctx, storeID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrAlreadyOpen) {
			return nil, errorbank.Conflict("the cash register is already open")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to open the cash register", errorbank.WithCause(err))
	}

	if s.logger != nil {
		s.logger.Info("cash register opened", zap.Int64("store_id", storeID), zap.Time("opened_at", session.OpenedAt))
	}
	return session, nil
}

// Close aggregates the open window's orders into a report, stamps the
// session closed and clears the store's pending receipts cache. A window
// with zero orders closes cleanly with a zeroed report. Orders are not
// locked after close; late edits remain a product decision.
func (s *Service) Close(ctx context.Context, storeID int64) (*dto.CashRegisterReport, error) {
	ctx, span := serviceTracer.Start(ctx, "CashRegisterService.Close", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	if storeID == 0 {
		return nil, errorbank.BadRequest("store is required")
	}

	session, err := s.sessions.FindOpen(ctx, storeID)
	if err != nil {
		if errors.Is(err, repo.ErrNoOpenSession) {
			return nil, errorbank.NotFound("no cash register is open for this store")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to load the cash register session", errorbank.WithCause(err))
	}

	closedAt := time.Now().UTC()
	agg, err := s.orders.AggregateWindow(ctx, storeID, session.OpenedAt, closedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "aggregation failed")
		return nil, errorbank.Internal("failed to aggregate the accounting window", errorbank.WithCause(err))
	}

	if err := s.sessions.Close(ctx, session.ID, closedAt); err != nil {
		if errors.Is(err, repo.ErrNoOpenSession) {
			return nil, errorbank.NotFound("no cash register is open for this store")
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "repository error")
		return nil, errorbank.Internal("failed to close the cash register", errorbank.WithCause(err))
	}

	s.clearPendingReceipts(ctx, storeID)

	return &dto.CashRegisterReport{
		StoreID:           storeID,
		OpenedAt:          session.OpenedAt,
		ClosedAt:          closedAt,
		TotalRevenueCents: agg.TotalRevenueCents,
		OrderCount:        agg.OrderCount,
		CompletedOrders:   agg.CompletedOrders,
		PendingOrders:     agg.PendingOrders,
	}, nil
}

func (s *Service) clearPendingReceipts(ctx context.Context, storeID int64) {
	if s.cache == nil {
		return
	}
	key := fmt.Sprintf("stores:%d:pending-receipts", storeID)
	if err := s.cache.Delete(ctx, key); err != nil && s.logger != nil {
		s.logger.Warn("pending receipts cache clear failed", zap.Int64("store_id", storeID), zap.Error(err))
	}
}
