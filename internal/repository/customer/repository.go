package customer

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

var repoTracer = otel.Tracer("github.com/pratoapp/prato/repository/customer")

// ErrNotFound is returned when the customer is missing.
var ErrNotFound = errors.New("customer not found")

// ErrNoAddress is returned when the customer exists but has no address.
var ErrNoAddress = errors.New("customer has no address")

// Repository encapsulates read access for customers and their addresses.
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

// GetWithAddress loads a customer together with their delivery address.
func (r *Repository) GetWithAddress(ctx context.Context, id int64) (*entity.Customer, error) {
	ctx, span := repoTracer.Start(ctx, "CustomerRepository.GetWithAddress", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	customer := new(entity.Customer)
	err := r.reader.NewSelect().Model(customer).
		Relation("Address").
		Where("customer.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	if customer.Address == nil {
		span.SetStatus(codes.Error, "no address")
		return nil, ErrNoAddress
	}
	return customer, nil
}
