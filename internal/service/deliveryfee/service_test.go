package deliveryfee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/adapter/geocoder"
	"github.com/pratoapp/prato/internal/config"
	"github.com/pratoapp/prato/internal/entity"
	customerrepo "github.com/pratoapp/prato/internal/repository/customer"
	arearepo "github.com/pratoapp/prato/internal/repository/deliveryarea"
	"github.com/pratoapp/prato/pkg/errorbank"
)

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

type fakeAreas struct {
	bands []arearepo.TierBand
	zones []*entity.DeliveryAreaZone
}

func (f *fakeAreas) TierBands(ctx context.Context, storeID int64) ([]arearepo.TierBand, error) {
	return f.bands, nil
}

func (f *fakeAreas) ZonesByLocality(ctx context.Context, storeID int64, city, state string) ([]*entity.DeliveryAreaZone, error) {
	return f.zones, nil
}

type fakeGeocoder struct {
	result *geocoder.Result
	err    error
}

func (f *fakeGeocoder) Resolve(ctx context.Context, address, apiKey string) (*geocoder.Result, error) {
	return f.result, f.err
}

func testCustomer() *entity.Customer {
	return &entity.Customer{
		ID:      7,
		StoreID: 1,
		Name:    "Ana",
		Address: &entity.Address{
			Street: "Rua das Flores", Number: "100",
			Neighborhood: "Centro", City: "Campinas", State: "SP",
		},
	}
}

// bandsAround builds two concentric bands on a single center at the origin,
// 500 cents up to 1km and 800 cents up to 3km.
func bandsAround() []arearepo.TierBand {
	return []arearepo.TierBand{
		{AreaID: 1, DistanceKm: 1, PriceCents: 500},
		{AreaID: 1, DistanceKm: 3, PriceCents: 800},
	}
}

func newTestService(areas *fakeAreas, geo *fakeGeocoder, policy string) *Service {
	return &Service{
		customers: &fakeCustomers{customer: testCustomer()},
		stores:    &fakeStores{key: "test-key"},
		areas:     areas,
		geocoder:  geo,
		policy:    policy,
		country:   "Brasil",
		logger:    zap.NewNop(),
	}
}

// 0.0189 degrees of latitude is roughly 2.1km.
func pointAtKm(lat float64) *geocoder.Result {
	return &geocoder.Result{Latitude: lat, Longitude: 0, PlaceID: "place-1"}
}

func TestResolveRadiusBands(t *testing.T) {
	t.Run("inside first band", func(t *testing.T) {
		svc := newTestService(&fakeAreas{bands: bandsAround()}, &fakeGeocoder{result: pointAtKm(0.005)}, config.OutOfRangeReject)

		quote, err := svc.Resolve(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(500), quote.FeeCents)
	})

	t.Run("between bands pays the outer one", func(t *testing.T) {
		svc := newTestService(&fakeAreas{bands: bandsAround()}, &fakeGeocoder{result: pointAtKm(0.0189)}, config.OutOfRangeReject)

		quote, err := svc.Resolve(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(800), quote.FeeCents)
		assert.InDelta(t, 2.1, quote.DistanceKm, 0.05)
		assert.Contains(t, quote.Message, "R$ 8.00")
	})

	t.Run("beyond the widest band is rejected", func(t *testing.T) {
		svc := newTestService(&fakeAreas{bands: bandsAround()}, &fakeGeocoder{result: pointAtKm(0.0315)}, config.OutOfRangeReject)

		_, err := svc.Resolve(context.Background(), 7, 1)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUnprocessableEntity, errorbank.From(err).Kind())
	})

	t.Run("clamp policy charges the widest band", func(t *testing.T) {
		svc := newTestService(&fakeAreas{bands: bandsAround()}, &fakeGeocoder{result: pointAtKm(0.0315)}, config.OutOfRangeClamp)

		quote, err := svc.Resolve(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(800), quote.FeeCents)
	})

	t.Run("nearest covering center wins", func(t *testing.T) {
		bands := []arearepo.TierBand{
			{AreaID: 1, DistanceKm: 5, PriceCents: 900, CenterLatitude: 0.04, CenterLongitude: 0},
			{AreaID: 2, DistanceKm: 5, PriceCents: 400, CenterLatitude: 0.005, CenterLongitude: 0},
		}
		svc := newTestService(&fakeAreas{bands: bands}, &fakeGeocoder{result: pointAtKm(0)}, config.OutOfRangeReject)

		quote, err := svc.Resolve(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(400), quote.FeeCents)
	})
}

func TestResolveZoneFallback(t *testing.T) {
	t.Run("neighborhood zone beats the city wide one", func(t *testing.T) {
		areas := &fakeAreas{zones: []*entity.DeliveryAreaZone{
			{StoreID: 1, City: "campinas", State: "sp", FeeCents: 1500},
			{StoreID: 1, City: "campinas", State: "sp", Neighborhood: "centro", FeeCents: 900},
		}}
		svc := newTestService(areas, &fakeGeocoder{result: pointAtKm(1)}, config.OutOfRangeReject)

		quote, err := svc.Resolve(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(900), quote.FeeCents)
	})

	t.Run("city wide zone applies without a neighborhood match", func(t *testing.T) {
		areas := &fakeAreas{zones: []*entity.DeliveryAreaZone{
			{StoreID: 1, City: "campinas", State: "sp", Neighborhood: "taquaral", FeeCents: 700},
			{StoreID: 1, City: "campinas", State: "sp", FeeCents: 1500},
		}}
		svc := newTestService(areas, &fakeGeocoder{result: pointAtKm(1)}, config.OutOfRangeReject)

		quote, err := svc.Resolve(context.Background(), 7, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), quote.FeeCents)
	})

	t.Run("no areas at all", func(t *testing.T) {
		svc := newTestService(&fakeAreas{}, &fakeGeocoder{result: pointAtKm(1)}, config.OutOfRangeReject)

		_, err := svc.Resolve(context.Background(), 7, 1)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})
}

func TestResolveLookupErrors(t *testing.T) {
	t.Run("customer without address", func(t *testing.T) {
		svc := newTestService(&fakeAreas{bands: bandsAround()}, &fakeGeocoder{result: pointAtKm(0)}, config.OutOfRangeReject)
		svc.customers = &fakeCustomers{err: customerrepo.ErrNoAddress}

		_, err := svc.Resolve(context.Background(), 7, 1)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})

	t.Run("geocoder failure propagates", func(t *testing.T) {
		geoErr := errorbank.Upstream("the address service is unavailable")
		svc := newTestService(&fakeAreas{bands: bandsAround()}, &fakeGeocoder{err: geoErr}, config.OutOfRangeReject)

		_, err := svc.Resolve(context.Background(), 7, 1)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindUpstream, errorbank.From(err).Kind())
	})
}
