package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/adapter/geocoder"
	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	orderrepo "github.com/pratoapp/prato/internal/repository/order"
	"github.com/pratoapp/prato/pkg/errorbank"
)

type fakeRepo struct {
	orders      map[int64]*entity.Order
	nextID      int64
	dailyNumber int
	lastReceipt *entity.Receipt
	assigned    int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: map[int64]*entity.Order{}, nextID: 1, dailyNumber: 1}
}

func (f *fakeRepo) CreateWithItems(ctx context.Context, o *entity.Order, items []*entity.OrderItem, receipt *entity.Receipt) error {
	o.ID = f.nextID
	o.DailyNumber = f.dailyNumber
	f.nextID++
	f.dailyNumber++
	f.orders[o.ID] = o
	f.lastReceipt = receipt
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, orderrepo.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (f *fakeRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	o, ok := f.orders[id]
	if !ok {
		return orderrepo.ErrNotFound
	}
	o.Status = status
	return nil
}

func (f *fakeRepo) UpdatePayment(ctx context.Context, id int64, paymentStatus, paymentType string) error {
	o, ok := f.orders[id]
	if !ok {
		return orderrepo.ErrNotFound
	}
	o.PaymentStatus = paymentStatus
	o.PaymentType = paymentType
	return nil
}

func (f *fakeRepo) AssignDeliverer(ctx context.Context, storeID int64, orderIDs []int64, delivererID int64) (int64, error) {
	var updated int64
	for _, id := range orderIDs {
		o, ok := f.orders[id]
		if !ok || o.StoreID != storeID {
			continue
		}
		o.DelivererID = &delivererID
		updated++
	}
	f.assigned = updated
	return updated, nil
}

type fakeCustomers struct {
	customer *entity.Customer
	err      error
}

func (f *fakeCustomers) GetWithAddress(ctx context.Context, id int64) (*entity.Customer, error) {
	return f.customer, f.err
}

type fakeStores struct {
	key string
	err error
}

func (f *fakeStores) GeocoderKey(ctx context.Context, storeID int64) (string, error) {
	return f.key, f.err
}

type fakeDeliverers struct {
	courier *entity.Deliverer
	err     error
}

func (f *fakeDeliverers) GetByID(ctx context.Context, id int64) (*entity.Deliverer, error) {
	return f.courier, f.err
}

type fakeGeocoder struct {
	result *geocoder.Result
	err    error
}

func (f *fakeGeocoder) Resolve(ctx context.Context, address, apiKey string) (*geocoder.Result, error) {
	return f.result, f.err
}

func newTestService(repo *fakeRepo) *Service {
	return &Service{
		repo: repo,
		customers: &fakeCustomers{customer: &entity.Customer{
			ID:      7,
			StoreID: 1,
			Address: &entity.Address{Street: "Rua das Flores", Number: "100", City: "Campinas", State: "SP"},
		}},
		stores:     &fakeStores{key: "test-key"},
		deliverers: &fakeDeliverers{courier: &entity.Deliverer{ID: 3, StoreID: 1, Name: "Carlos"}},
		geocoder:   &fakeGeocoder{result: &geocoder.Result{Latitude: -22.9, Longitude: -47.06, PlaceID: "place-1"}},
		country:    "Brasil",
		logger:     zap.NewNop(),
	}
}

func validInput() dto.CreateOrderInput {
	return dto.CreateOrderInput{
		StoreID:       1,
		CustomerID:    7,
		Type:          entity.TypeDelivery,
		Status:        entity.StatusAccepted,
		PaymentStatus: "PENDING",
		PaymentType:   "CASH",
		Items: []dto.OrderItemInput{
			{ProductID: 1, PriceCents: 1000, Quantity: 2},
			{ProductID: 2, PriceCents: 500, Quantity: 1},
		},
	}
}

func TestCreate(t *testing.T) {
	t.Run("persists order with total, location and receipt", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)

		order, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)

		assert.Equal(t, int64(2500), order.TotalPriceCents)
		assert.Equal(t, 1, order.DailyNumber)
		assert.Equal(t, -22.9, order.Latitude)
		assert.Equal(t, "place-1", order.PlaceID)
		assert.Len(t, order.Items, 2)
		require.NotNil(t, repo.lastReceipt)
		assert.NotEmpty(t, repo.lastReceipt.ReceiptNumber)
	})

	t.Run("daily numbers are sequential", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)

		first, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
		second, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)

		assert.Equal(t, 1, first.DailyNumber)
		assert.Equal(t, 2, second.DailyNumber)
	})

	t.Run("anonymous customer is rejected", func(t *testing.T) {
		svc := newTestService(newFakeRepo())
		in := validInput()
		in.CustomerID = 0

		_, err := svc.Create(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUnauthorized, errorbank.From(err).Kind())
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		svc := newTestService(newFakeRepo())
		in := validInput()
		in.Items = nil

		_, err := svc.Create(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		svc := newTestService(newFakeRepo())
		in := validInput()
		in.Type = "drone"

		_, err := svc.Create(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("zero quantity item is rejected", func(t *testing.T) {
		svc := newTestService(newFakeRepo())
		in := validInput()
		in.Items[0].Quantity = 0

		_, err := svc.Create(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})
}

func TestTotalPriceCents(t *testing.T) {
	assert.Equal(t, int64(0), totalPriceCents(nil))
	assert.Equal(t, int64(2500), totalPriceCents([]dto.OrderItemInput{
		{ProductID: 1, PriceCents: 1000, Quantity: 2},
		{ProductID: 2, PriceCents: 500, Quantity: 1},
	}))
}

func TestUpdateStatus(t *testing.T) {
	t.Run("allowed transition persists", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)
		created, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)

		updated, err := svc.UpdateStatus(context.Background(), created.ID, entity.StatusPreparing)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPreparing, updated.Status)
		assert.Equal(t, entity.StatusPreparing, repo.orders[created.ID].Status)
	})

	t.Run("skipping ahead is rejected", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)
		created, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)

		_, err = svc.UpdateStatus(context.Background(), created.ID, entity.StatusDelivered)
		require.Error(t, err)
		appErr := errorbank.From(err)
		assert.Equal(t, errorbank.KindUnprocessableEntity, appErr.Kind())
		assert.Equal(t, entity.StatusAccepted, appErr.Details()["current_status"])
		assert.Equal(t, entity.StatusAccepted, repo.orders[created.ID].Status)
	})

	t.Run("terminal orders stay put", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)
		created, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)
		repo.orders[created.ID].Status = entity.StatusCancelled

		_, err = svc.UpdateStatus(context.Background(), created.ID, entity.StatusPreparing)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())
	})

	t.Run("unknown status is a bad request", func(t *testing.T) {
		svc := newTestService(newFakeRepo())

		_, err := svc.UpdateStatus(context.Background(), 1, "DONE")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})
}

func TestAssignDeliverer(t *testing.T) {
	t.Run("assigns the store's own orders", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)
		created, err := svc.Create(context.Background(), validInput())
		require.NoError(t, err)

		updated, err := svc.AssignDeliverer(context.Background(), dto.AssignOrdersInput{
			StoreID: 1, OrderIDs: []int64{created.ID}, DelivererID: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)
		require.NotNil(t, repo.orders[created.ID].DelivererID)
		assert.Equal(t, int64(3), *repo.orders[created.ID].DelivererID)
	})

	t.Run("courier from another store is invisible", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)
		svc.deliverers = &fakeDeliverers{courier: &entity.Deliverer{ID: 3, StoreID: 99}}

		_, err := svc.AssignDeliverer(context.Background(), dto.AssignOrdersInput{
			StoreID: 1, OrderIDs: []int64{1}, DelivererID: 3,
		})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})
}
