package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pratoapp/prato/internal/database"
	"github.com/pratoapp/prato/internal/entity"
)

var repoTracer = otel.Tracer("github.com/pratoapp/prato/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// WindowAggregate summarizes the store's orders inside one accounting window.
type WindowAggregate struct {
	TotalRevenueCents int64 `bun:"total_revenue_cents"`
	OrderCount        int   `bun:"order_count"`
	CompletedOrders   int   `bun:"completed_orders"`
	PendingOrders     int   `bun:"pending_orders"`
}

// Repository encapsulates read/write access for orders.
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

// CreateWithItems persists the order, its items and its receipt in a single
// transaction. The daily number is computed inside the transaction with the
// latest order row of the day locked, so concurrent creations for the same
// store serialize instead of racing.
func (r *Repository) CreateWithItems(ctx context.Context, o *entity.Order, items []*entity.OrderItem, receipt *entity.Receipt) error {
	if o == nil {
		return errors.New("nil order")
	}
	if len(items) == 0 {
		return errors.New("order has no items")
	}
	if receipt == nil {
		return errors.New("nil receipt")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.CreateWithItems", trace.WithAttributes(attribute.Int64("store.id", o.StoreID)))
	defer span.End()

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		number, err := nextDailyNumber(ctx, tx, o.StoreID, o.CreatedAt)
		if err != nil {
			return err
		}
		o.DailyNumber = number

		if _, err := tx.NewInsert().Model(o).Exec(ctx); err != nil {
			return err
		}

		for _, item := range items {
			item.OrderID = o.ID
		}
		if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
			return err
		}

		receipt.OrderID = o.ID
		receipt.StoreID = o.StoreID
		_, err = tx.NewInsert().Model(receipt).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
	}
	return err
}

// nextDailyNumber reads the highest daily number assigned today (UTC) and
// increments it. The read locks the newest row; the first order of the day
// is additionally covered by the unique (store, day, number) index.
func nextDailyNumber(ctx context.Context, tx bun.Tx, storeID int64, at time.Time) (int, error) {
	dayStart := at.UTC().Truncate(24 * time.Hour)

	var last int
	err := tx.NewSelect().Model((*entity.Order)(nil)).
		Column("daily_number").
		Where("store_id = ?", storeID).
		Where("created_at >= ?", dayStart).
		OrderExpr("daily_number DESC").
		Limit(1).
		For("UPDATE").
		Scan(ctx, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// GetByID fetches an order with its items using the read replica when
// available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	o := new(entity.Order)
	err := r.reader.NewSelect().Model(o).
		Relation("Items").
		Where("\"order\".id = ?", id).
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
	return o, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()

	var orders []*entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Relation("Items").
		Where("\"order\".customer_id = ?", customerID).
		OrderExpr("\"order\".created_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// UpdateStatus persists a new lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", status),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

// UpdatePayment mutates the payment fields of an order.
func (r *Repository) UpdatePayment(ctx context.Context, id int64, paymentStatus, paymentType string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdatePayment", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("payment_status = ?", paymentStatus).
		Set("payment_type = ?", paymentType).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

// AssignDeliverer sets the deliverer on every matching order of the store
// and reports how many rows were touched. Statuses are left untouched.
func (r *Repository) AssignDeliverer(ctx context.Context, storeID int64, orderIDs []int64, delivererID int64) (int64, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.AssignDeliverer", trace.WithAttributes(
		attribute.Int64("store.id", storeID),
		attribute.Int64("deliverer.id", delivererID),
	))
	defer span.End()

	if len(orderIDs) == 0 {
		return 0, nil
	}

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("deliverer_id = ?", delivererID).
		Where("store_id = ?", storeID).
		Where("id IN (?)", bun.In(orderIDs)).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

// AggregateWindow sums the store's orders created inside [from, to).
func (r *Repository) AggregateWindow(ctx context.Context, storeID int64, from, to time.Time) (*WindowAggregate, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.AggregateWindow", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	agg := new(WindowAggregate)
	err := r.reader.NewSelect().Model((*entity.Order)(nil)).
		ColumnExpr("COALESCE(SUM(total_price_cents), 0) AS total_revenue_cents").
		ColumnExpr("COUNT(*) AS order_count").
		ColumnExpr("COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_orders", entity.StatusDelivered).
		ColumnExpr("COALESCE(SUM(CASE WHEN status IN (?) THEN 1 ELSE 0 END), 0) AS pending_orders",
			bun.In([]string{entity.StatusAccepted, entity.StatusPreparing, entity.StatusInTransit})).
		Where("store_id = ?", storeID).
		Where("created_at >= ?", from).
		Where("created_at < ?", to).
		Scan(ctx, agg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return agg, nil
}
