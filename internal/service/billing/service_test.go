package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adapter "github.com/pratoapp/prato/internal/adapter/billing"
	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	storerepo "github.com/pratoapp/prato/internal/repository/store"
	"github.com/pratoapp/prato/pkg/errorbank"
)

type fakeStores struct {
	store *entity.Store
	err   error
}

func (f *fakeStores) GetByID(ctx context.Context, id int64) (*entity.Store, error) {
	return f.store, f.err
}

type fakeGateway struct {
	result *adapter.ChargeResult
	err    error
	last   adapter.SubscriptionCharge
}

func (f *fakeGateway) ChargeSubscription(ctx context.Context, charge adapter.SubscriptionCharge) (*adapter.ChargeResult, error) {
	f.last = charge
	return f.result, f.err
}

func (f *fakeGateway) TransactionStatus(ctx context.Context, reference string) (string, error) {
	return "settlement", nil
}

func TestChargeSubscription(t *testing.T) {
	t.Run("charges an existing store", func(t *testing.T) {
		gateway := &fakeGateway{result: &adapter.ChargeResult{Reference: "sub-1-abc", Status: "pending"}}
		svc := &Service{
			gateway: gateway,
			stores:  &fakeStores{store: &entity.Store{ID: 1, Name: "Prato Demo"}},
			logger:  zap.NewNop(),
		}

		resp, err := svc.ChargeSubscription(context.Background(), dto.ChargeSubscriptionInput{
			StoreID: 1, PlanID: "pro", AmountCents: 9900,
		})
		require.NoError(t, err)
		assert.Equal(t, "sub-1-abc", resp.Reference)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "pro", gateway.last.PlanID)
		assert.Equal(t, int64(9900), gateway.last.AmountCents)
	})

	t.Run("unknown store", func(t *testing.T) {
		svc := &Service{
			gateway: &fakeGateway{},
			stores:  &fakeStores{err: storerepo.ErrNotFound},
			logger:  zap.NewNop(),
		}

		_, err := svc.ChargeSubscription(context.Background(), dto.ChargeSubscriptionInput{
			StoreID: 9, PlanID: "pro", AmountCents: 9900,
		})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})

	t.Run("missing store id", func(t *testing.T) {
		svc := &Service{gateway: &fakeGateway{}, stores: &fakeStores{}, logger: zap.NewNop()}

		_, err := svc.ChargeSubscription(context.Background(), dto.ChargeSubscriptionInput{PlanID: "pro", AmountCents: 9900})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("gateway failure propagates", func(t *testing.T) {
		svc := &Service{
			gateway: &fakeGateway{err: errorbank.Upstream("the payment provider refused the charge")},
			stores:  &fakeStores{store: &entity.Store{ID: 1}},
			logger:  zap.NewNop(),
		}

		_, err := svc.ChargeSubscription(context.Background(), dto.ChargeSubscriptionInput{
			StoreID: 1, PlanID: "pro", AmountCents: 9900,
		})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUpstream, errorbank.From(err).Kind())
	})
}
