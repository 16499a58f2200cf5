package deliverer

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

var repoTracer = otel.Tracer("github.com/pratoapp/prato/repository/deliverer")

// ErrNotFound is returned when a deliverer is missing.
var ErrNotFound = errors.New("deliverer not found")

// Repository encapsulates read/write access for deliverers.
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

// Create persists a new deliverer.
func (r *Repository) Create(ctx context.Context, d *entity.Deliverer) error {
	if d == nil {
		return errors.New("nil deliverer")
	}
	ctx, span := repoTracer.Start(ctx, "DelivererRepository.Create", trace.WithAttributes(attribute.Int64("store.id", d.StoreID)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(d).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a deliverer by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Deliverer, error) {
	ctx, span := repoTracer.Start(ctx, "DelivererRepository.GetByID", trace.WithAttributes(attribute.Int64("deliverer.id", id)))
	defer span.End()

	d := new(entity.Deliverer)
	err := r.reader.NewSelect().Model(d).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return d, nil
}

// ListByStore returns the store's deliverers.
func (r *Repository) ListByStore(ctx context.Context, storeID int64) ([]*entity.Deliverer, error) {
	ctx, span := repoTracer.Start(ctx, "DelivererRepository.ListByStore", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	var deliverers []*entity.Deliverer
	err := r.reader.NewSelect().Model(&deliverers).
		Where("store_id = ?", storeID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return deliverers, nil
}
