package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/database"
	"github.com/pratoapp/prato/internal/entity"
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Demo seeds a demo store with a catalog, a delivery area and a courier so
// the storefront is usable right after a fresh migration.
func (s *Seeder) Demo(ctx context.Context) error {
	now := time.Now().UTC()

	store := entity.Store{
		ID:        1,
		Name:      "Prato Demo",
		Slug:      "prato-demo",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.db.NewInsert().Model(&store).
		On("CONFLICT (slug) DO NOTHING").
		Exec(ctx); err != nil {
		return err
	}

	products := []entity.Product{
		{StoreID: store.ID, Name: "Marmita P", PriceCents: 1800, Active: true, CreatedAt: now, UpdatedAt: now},
		{StoreID: store.ID, Name: "Marmita G", PriceCents: 2500, Active: true, CreatedAt: now, UpdatedAt: now},
		{StoreID: store.ID, Name: "Refrigerante lata", PriceCents: 600, Active: true, CreatedAt: now, UpdatedAt: now},
	}
	for _, sample := range products {
		product := sample
		if _, err := s.db.NewInsert().Model(&product).
			On("CONFLICT DO NOTHING").
			Exec(ctx); err != nil {
			return err
		}
	}

	area := entity.DeliveryAreaRadius{
		ID:              1,
		StoreID:         store.ID,
		CenterLatitude:  -23.55052,
		CenterLongitude: -46.633308,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.db.NewInsert().Model(&area).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx); err != nil {
		return err
	}

	tiers := []entity.FeeTier{
		{DeliveryAreaID: area.ID, DistanceKm: 1, PriceCents: 500},
		{DeliveryAreaID: area.ID, DistanceKm: 3, PriceCents: 800},
		{DeliveryAreaID: area.ID, DistanceKm: 6, PriceCents: 1200},
	}
	for _, sample := range tiers {
		tier := sample
		if _, err := s.db.NewInsert().Model(&tier).
			On("CONFLICT (delivery_area_id, distance_km) DO NOTHING").
			Exec(ctx); err != nil {
			return err
		}
	}

	zone := entity.DeliveryAreaZone{
		StoreID:  store.ID,
		City:     "sao paulo",
		State:    "sp",
		FeeCents: 1500,
	}
	if _, err := s.db.NewInsert().Model(&zone).
		On("CONFLICT DO NOTHING").
		Exec(ctx); err != nil {
		return err
	}

	courier := entity.Deliverer{
		StoreID:   store.ID,
		Name:      "Carlos Motoboy",
		Phone:     "+55 11 99999-0001",
		Vehicle:   "motorcycle",
		CreatedAt: now,
	}
	if _, err := s.db.NewInsert().Model(&courier).
		On("CONFLICT DO NOTHING").
		Exec(ctx); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("seeded demo store",
			zap.Int64("store_id", store.ID),
			zap.Int("products", len(products)),
			zap.Int("fee_tiers", len(tiers)),
		)
	}
	return nil
}
