package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/config"
	"github.com/pratoapp/prato/internal/messaging"
	ordersvc "github.com/pratoapp/prato/internal/service/order"
	"github.com/pratoapp/prato/internal/worker"
)

var workerTracer = otel.Tracer("github.com/pratoapp/prato/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderEventsHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderEventsHandler sets up a worker handler that processes order
// lifecycle events from the orders topic.
func NewOrderEventsHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var envelope ordersvc.Event
		if err := json.Unmarshal(msg.Value, &envelope); err != nil {
			logger.Error("failed to decode order event envelope", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		span.SetAttributes(attribute.String("event.type", envelope.Type))

		switch envelope.Type {
		case ordersvc.EventOrderCreated:
			var event ordersvc.OrderCreatedEvent
			if err := json.Unmarshal(envelope.Payload, &event); err != nil {
				logger.Error("failed to decode order created", zap.Error(err))

				span.RecordError(err)
				span.SetStatus(codes.Error, "decode error")
				return err
			}
			logger.Info("order created event processed",
				zap.Int64("id", event.ID),
				zap.Int64("store_id", event.StoreID),
				zap.Int("daily_number", event.DailyNumber),
				zap.Int64("total_price_cents", event.TotalPriceCents),
			)
		case ordersvc.EventOrderStatusChanged:
			var event ordersvc.OrderStatusChangedEvent
			if err := json.Unmarshal(envelope.Payload, &event); err != nil {
				logger.Error("failed to decode status change", zap.Error(err))

				span.RecordError(err)
				span.SetStatus(codes.Error, "decode error")
				return err
			}
			logger.Info("order status change processed",
				zap.Int64("order_id", event.OrderID),
				zap.String("from", event.From),
				zap.String("to", event.To),
			)
		default:
			logger.Warn("unknown order event type", zap.String("type", envelope.Type))
		}

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
