package deliveryarea

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pratoapp/prato/internal/database"
	"github.com/pratoapp/prato/internal/entity"
)

var repoTracer = otel.Tracer("github.com/pratoapp/prato/repository/deliveryarea")

// TierBand is one fee band joined with its parent area's center point.
type TierBand struct {
	AreaID          int64   `bun:"area_id"`
	DistanceKm      int     `bun:"distance_km"`
	PriceCents      int64   `bun:"price_cents"`
	CenterLatitude  float64 `bun:"center_latitude"`
	CenterLongitude float64 `bun:"center_longitude"`
}

// Repository encapsulates access to radius areas, fee tiers and zones.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// CreateRadiusArea persists a center point and its fee tiers atomically.
func (r *Repository) CreateRadiusArea(ctx context.Context, area *entity.DeliveryAreaRadius) error {
	if area == nil {
		return errors.New("nil delivery area")
	}
	ctx, span := repoTracer.Start(ctx, "DeliveryAreaRepository.CreateRadiusArea", trace.WithAttributes(attribute.Int64("store.id", area.StoreID)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(area).Exec(ctx); err != nil {
			return err
		}
		if len(area.Tiers) == 0 {
			return nil
		}
		for _, tier := range area.Tiers {
			tier.DeliveryAreaID = area.ID
		}
		_, err := tx.NewInsert().Model(&area.Tiers).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// ListRadiusByStore returns the store's centers with their tiers.
func (r *Repository) ListRadiusByStore(ctx context.Context, storeID int64) ([]*entity.DeliveryAreaRadius, error) {
	ctx, span := repoTracer.Start(ctx, "DeliveryAreaRepository.ListRadiusByStore", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	var areas []*entity.DeliveryAreaRadius
	err := r.reader.NewSelect().Model(&areas).
		Relation("Tiers", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("distance_km ASC")
		}).
		Where("store_id = ?", storeID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return areas, nil
}

// TierBands returns every fee tier of the store joined with its center,
// ordered by ascending distance.
func (r *Repository) TierBands(ctx context.Context, storeID int64) ([]TierBand, error) {
	ctx, span := repoTracer.Start(ctx, "DeliveryAreaRepository.TierBands", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	var bands []TierBand
	err := r.reader.NewSelect().
		Model((*entity.FeeTier)(nil)).
		ColumnExpr("fee_tier.delivery_area_id AS area_id").
		ColumnExpr("fee_tier.distance_km").
		ColumnExpr("fee_tier.price_cents").
		ColumnExpr("area.center_latitude").
		ColumnExpr("area.center_longitude").
		Join("JOIN delivery_area_radius AS area ON area.id = fee_tier.delivery_area_id").
		Where("area.store_id = ?", storeID).
		Order("fee_tier.distance_km ASC").
		Scan(ctx, &bands)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return bands, nil
}

// CreateZone persists a flat-fee locality zone.
func (r *Repository) CreateZone(ctx context.Context, zone *entity.DeliveryAreaZone) error {
	if zone == nil {
		return errors.New("nil delivery zone")
	}
	ctx, span := repoTracer.Start(ctx, "DeliveryAreaRepository.CreateZone", trace.WithAttributes(attribute.Int64("store.id", zone.StoreID)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(zone).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// ListZonesByStore returns the store's locality zones.
func (r *Repository) ListZonesByStore(ctx context.Context, storeID int64) ([]*entity.DeliveryAreaZone, error) {
	ctx, span := repoTracer.Start(ctx, "DeliveryAreaRepository.ListZonesByStore", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	var zones []*entity.DeliveryAreaZone
	err := r.reader.NewSelect().Model(&zones).
		Where("store_id = ?", storeID).
		Order("city ASC", "neighborhood ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return zones, nil
}

// ZonesByLocality returns zones matching the normalized city and state.
func (r *Repository) ZonesByLocality(ctx context.Context, storeID int64, city, state string) ([]*entity.DeliveryAreaZone, error) {
	ctx, span := repoTracer.Start(ctx, "DeliveryAreaRepository.ZonesByLocality", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	var zones []*entity.DeliveryAreaZone
	err := r.reader.NewSelect().Model(&zones).
		Where("store_id = ?", storeID).
		Where("city = ?", Normalize(city)).
		Where("state = ?", Normalize(state)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return zones, nil
}

// Normalize folds a locality string for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
