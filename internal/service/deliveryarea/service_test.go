package deliveryarea

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/dto"
	"github.com/pratoapp/prato/internal/entity"
	"github.com/pratoapp/prato/pkg/errorbank"
)

type fakeRepo struct {
	areas []*entity.DeliveryAreaRadius
	zones []*entity.DeliveryAreaZone
}

func (f *fakeRepo) CreateRadiusArea(ctx context.Context, area *entity.DeliveryAreaRadius) error {
	area.ID = int64(len(f.areas) + 1)
	f.areas = append(f.areas, area)
	return nil
}

func (f *fakeRepo) ListRadiusByStore(ctx context.Context, storeID int64) ([]*entity.DeliveryAreaRadius, error) {
	return f.areas, nil
}

func (f *fakeRepo) CreateZone(ctx context.Context, zone *entity.DeliveryAreaZone) error {
	zone.ID = int64(len(f.zones) + 1)
	f.zones = append(f.zones, zone)
	return nil
}

func (f *fakeRepo) ListZonesByStore(ctx context.Context, storeID int64) ([]*entity.DeliveryAreaZone, error) {
	return f.zones, nil
}

func newTestService(repo *fakeRepo) *Service {
	return &Service{repo: repo, logger: zap.NewNop()}
}

func validArea() dto.CreateRadiusAreaInput {
	return dto.CreateRadiusAreaInput{
		StoreID:         1,
		CenterLatitude:  -22.9056,
		CenterLongitude: -47.0608,
		Tiers: []dto.FeeTierInput{
			{DistanceKm: 1, PriceCents: 500},
			{DistanceKm: 3, PriceCents: 800},
		},
	}
}

func TestCreateRadiusArea(t *testing.T) {
	t.Run("persists the center with its bands", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(repo)

		area, err := svc.CreateRadiusArea(context.Background(), validArea())
		require.NoError(t, err)
		assert.Len(t, area.Tiers, 2)
		assert.Len(t, repo.areas, 1)
	})

	t.Run("duplicate band distances", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		in := validArea()
		in.Tiers = append(in.Tiers, dto.FeeTierInput{DistanceKm: 3, PriceCents: 900})

		_, err := svc.CreateRadiusArea(context.Background(), in)
		require.Error(t, err)
		appErr := errorbank.From(err)
		assert.Equal(t, errorbank.KindBadRequest, appErr.Kind())
		assert.Equal(t, 3, appErr.Details()["distance_km"])
	})

	t.Run("non positive distance", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		in := validArea()
		in.Tiers[0].DistanceKm = 0

		_, err := svc.CreateRadiusArea(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("negative price", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		in := validArea()
		in.Tiers[1].PriceCents = -1

		_, err := svc.CreateRadiusArea(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("coordinates out of bounds", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		in := validArea()
		in.CenterLatitude = 95

		_, err := svc.CreateRadiusArea(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("no tiers", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})
		in := validArea()
		in.Tiers = nil

		_, err := svc.CreateRadiusArea(context.Background(), in)
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})
}

func TestCreateZone(t *testing.T) {
	t.Run("normalizes locality strings", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(repo)

		zone, err := svc.CreateZone(context.Background(), dto.CreateZoneInput{
			StoreID:      1,
			City:         "  Campinas ",
			State:        "SP",
			Neighborhood: "Centro",
			FeeCents:     1200,
		})
		require.NoError(t, err)
		assert.Equal(t, "campinas", zone.City)
		assert.Equal(t, "sp", zone.State)
		assert.Equal(t, "centro", zone.Neighborhood)
	})

	t.Run("city and state required", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})

		_, err := svc.CreateZone(context.Background(), dto.CreateZoneInput{StoreID: 1, City: "  ", State: "SP"})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})

	t.Run("negative fee", func(t *testing.T) {
		svc := newTestService(&fakeRepo{})

		_, err := svc.CreateZone(context.Background(), dto.CreateZoneInput{StoreID: 1, City: "Campinas", State: "SP", FeeCents: -10})
		require.Error(t, err)
		assert.Equal(t, errorbank.KindBadRequest, errorbank.From(err).Kind())
	})
}
