package cashregister

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/entity"
	repo "github.com/pratoapp/prato/internal/repository/cashregister"
	orderrepo "github.com/pratoapp/prato/internal/repository/order"
	"github.com/pratoapp/prato/pkg/errorbank"
)

type fakeSessions struct {
	open     *entity.CashRegisterSession
	openErr  error
	closeErr error
	closedID int64
}

func (f *fakeSessions) Open(ctx context.Context, storeID int64, openedAt time.Time) (*entity.CashRegisterSession, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.open = &entity.CashRegisterSession{ID: 1, StoreID: storeID, OpenedAt: openedAt}
	return f.open, nil
}

func (f *fakeSessions) FindOpen(ctx context.Context, storeID int64) (*entity.CashRegisterSession, error) {
	if f.open == nil {
		return nil, repo.ErrNoOpenSession
	}
	return f.open, nil
}

func (f *fakeSessions) Close(ctx context.Context, sessionID int64, closedAt time.Time) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closedID = sessionID
	f.open = nil
	return nil
}

type fakeAggregator struct {
	agg *orderrepo.WindowAggregate
	err error
}

func (f *fakeAggregator) AggregateWindow(ctx context.Context, storeID int64, from, to time.Time) (*orderrepo.WindowAggregate, error) {
	return f.agg, f.err
}

func newTestService(sessions *fakeSessions, agg *fakeAggregator) *Service {
	return &Service{sessions: sessions, orders: agg, logger: zap.NewNop()}
}

func TestOpen(t *testing.T) {
	t.Run("opens a window", func(t *testing.T) {
		sessions := &fakeSessions{}
		svc := newTestService(sessions, &fakeAggregator{})

		session, err := svc.Open(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), session.StoreID)
		assert.False(t, session.OpenedAt.IsZero())
	})

	t.Run("double open conflicts", func(t *testing.T) {
		sessions := &fakeSessions{openErr: repo.ErrAlreadyOpen}
		svc := newTestService(sessions, &fakeAggregator{})

		_, err := svc.Open(context.Background(), 1)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindConflict, errorbank.From(err).Kind())
	})

	t.Run("missing store id", func(t *testing.T) {
		svc := newTestService(&fakeSessions{}, &fakeAggregator{})

		_, err := svc.Open(context.Background(), 0)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})
}

func TestClose(t *testing.T) {
	t.Run("reports the window aggregates", func(t *testing.T) {
		sessions := &fakeSessions{}
		agg := &fakeAggregator{agg: &orderrepo.WindowAggregate{
			TotalRevenueCents: 8200,
			OrderCount:        4,
			CompletedOrders:   3,
			PendingOrders:     1,
		}}
		svc := newTestService(sessions, agg)

		_, err := svc.Open(context.Background(), 1)
		require.NoError(t, err)

		report, err := svc.Close(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(8200), report.TotalRevenueCents)
		assert.Equal(t, 4, report.OrderCount)
		assert.Equal(t, 3, report.CompletedOrders)
		assert.Equal(t, 1, report.PendingOrders)
		assert.True(t, !report.ClosedAt.Before(report.OpenedAt))
		assert.Equal(t, int64(1), sessions.closedID)
	})

	t.Run("zero orders close cleanly", func(t *testing.T) {
		sessions := &fakeSessions{}
		agg := &fakeAggregator{agg: &orderrepo.WindowAggregate{}}
		svc := newTestService(sessions, agg)

		_, err := svc.Open(context.Background(), 1)
		require.NoError(t, err)

		report, err := svc.Close(context.Background(), 1)
		require.NoError(t, err)
		assert.Zero(t, report.TotalRevenueCents)
		assert.Zero(t, report.OrderCount)
	})

	t.Run("close without open window", func(t *testing.T) {
		svc := newTestService(&fakeSessions{}, &fakeAggregator{})

		_, err := svc.Close(context.Background(), 1)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})
}
