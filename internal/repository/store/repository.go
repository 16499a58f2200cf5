package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pratoapp/prato/internal/database"
	"github.com/pratoapp/prato/internal/entity"
)

var repoTracer = otel.Tracer("github.com/pratoapp/prato/repository/store")

// ErrNotFound is returned when a store is missing.
var ErrNotFound = errors.New("store not found")

// Repository encapsulates read access for stores.
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

// GetByID fetches a store by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Store, error) {
	ctx, span := repoTracer.Start(ctx, "StoreRepository.GetByID", trace.WithAttributes(attribute.Int64("store.id", id)))
	defer span.End()

	store := new(entity.Store)
	err := r.reader.NewSelect().Model(store).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return store, nil
}

// GeocoderKey returns the store's geocoding API key.
func (r *Repository) GeocoderKey(ctx context.Context, storeID int64) (string, error) {
	ctx, span := repoTracer.Start(ctx, "StoreRepository.GeocoderKey", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	var key string
	err := r.reader.NewSelect().Model((*entity.Store)(nil)).
		Column("geocoder_key").
		Where("id = ?", storeID).
		Scan(ctx, &key)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return "", ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return "", err
	}
	return key, nil
}
