package cashregister

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

var repoTracer = otel.Tracer("github.com/pratoapp/prato/repository/cashregister")

// ErrAlreadyOpen is returned when the store already has an open session.
var ErrAlreadyOpen = errors.New("cash register already open")

// ErrNoOpenSession is returned when no session is open for the store.
var ErrNoOpenSession = errors.New("no open cash register session")

// Repository encapsulates access to cash register sessions.
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

// Open starts a new session for the store. The existing open session, if
// any, is locked first so concurrent opens collapse into one winner.
func (r *Repository) Open(ctx context.Context, storeID int64, openedAt time.Time) (*entity.CashRegisterSession, error) {
	ctx, span := repoTracer.Start(ctx, "CashRegisterRepository.Open", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	session := &entity.CashRegisterSession{StoreID: storeID, OpenedAt: openedAt}

	err := r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*entity.CashRegisterSession)(nil)).
			Where("store_id = ?", storeID).
			Where("closed_at IS NULL").
			For("UPDATE").
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyOpen
		}
		_, err = tx.NewInsert().Model(session).Exec(ctx)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyOpen) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "open failed")
		}
		return nil, err
	}
	return session, nil
}

// FindOpen returns the store's current open session.
func (r *Repository) FindOpen(ctx context.Context, storeID int64) (*entity.CashRegisterSession, error) {
	ctx, span := repoTracer.Start(ctx, "CashRegisterRepository.FindOpen", trace.WithAttributes(attribute.Int64("store.id", storeID)))
	defer span.End()

	session := new(entity.CashRegisterSession)
	err := r.reader.NewSelect().Model(session).
		Where("store_id = ?", storeID).
		Where("closed_at IS NULL").
		OrderExpr("opened_at DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "no open session")
		return nil, ErrNoOpenSession
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return session, nil
}

// Close stamps the session's closing time.
func (r *Repository) Close(ctx context.Context, sessionID int64, closedAt time.Time) error {
	ctx, span := repoTracer.Start(ctx, "CashRegisterRepository.Close", trace.WithAttributes(attribute.Int64("session.id", sessionID)))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.CashRegisterSession)(nil)).
		Set("closed_at = ?", closedAt).
		Where("id = ?", sessionID).
		Where("closed_at IS NULL").
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		span.SetStatus(codes.Error, "no open session")
		return ErrNoOpenSession
	}
	return nil
}
