package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pratoapp/prato/internal/config"
	"github.com/pratoapp/prato/pkg/errorbank"
)

var tracer = otel.Tracer("github.com/pratoapp/prato/adapter/billing")

// SubscriptionCharge is a request to bill a store for its platform plan.
type SubscriptionCharge struct {
	StoreID     int64
	PlanID      string
	AmountCents int64
}

// ChargeResult reports the gateway-side outcome of a charge.
type ChargeResult struct {
	Reference string
	Status    string
}

// Gateway is the payment provider surface the platform consumes.
type Gateway interface {
	ChargeSubscription(ctx context.Context, charge SubscriptionCharge) (*ChargeResult, error)
	TransactionStatus(ctx context.Context, reference string) (string, error)
}

// Module provides the midtrans-backed gateway.
var Module = fx.Provide(
	fx.Annotate(NewClient, fx.As(new(Gateway))),
)

// Client wraps the midtrans core API. It is constructed once at startup and
// injected wherever billing calls are made.
type Client struct {
	core   coreapi.Client
	logger *zap.Logger
}

// NewClient builds the gateway client from configuration.
func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	env := midtrans.Sandbox
	if cfg.Billing.Environment == "production" {
		env = midtrans.Production
	}

	var core coreapi.Client
	core.New(cfg.Billing.ServerKey, env)

	return &Client{core: core, logger: logger}
}

// ChargeSubscription issues a bank-transfer charge for a store plan.
func (c *Client) ChargeSubscription(ctx context.Context, charge SubscriptionCharge) (*ChargeResult, error) {
	_, span := tracer.Start(ctx, "Billing.ChargeSubscription", trace.WithAttributes(
		attribute.Int64("billing.store_id", charge.StoreID),
		attribute.String("billing.plan_id", charge.PlanID),
	))
	defer span.End()

	if charge.AmountCents <= 0 {
		return nil, errorbank.BadRequest("charge amount must be positive")
	}
	if charge.PlanID == "" {
		return nil, errorbank.BadRequest("plan id is required")
	}

	reference := fmt.Sprintf("sub-%d-%s", charge.StoreID, uuid.NewString())
	plan := charge.PlanID

	req := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeBankTransfer,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  reference,
			GrossAmt: charge.AmountCents / 100,
		},
		BankTransfer: &coreapi.BankTransferDetails{
			Bank: midtrans.BankBca,
		},
		CustomField1: &plan,
	}

	resp, err := c.core.ChargeTransaction(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "charge failed")
		return nil, errorbank.Upstream("the payment provider refused the charge", errorbank.WithCause(err))
	}

	if c.logger != nil {
		c.logger.Info("subscription charge issued",
			zap.Int64("store_id", charge.StoreID),
			zap.String("reference", reference),
			zap.String("status", resp.TransactionStatus),
		)
	}

	return &ChargeResult{Reference: reference, Status: resp.TransactionStatus}, nil
}

// TransactionStatus looks up a previously issued charge by its reference.
func (c *Client) TransactionStatus(ctx context.Context, reference string) (string, error) {
	_, span := tracer.Start(ctx, "Billing.TransactionStatus", trace.WithAttributes(attribute.String("billing.reference", reference)))
	defer span.End()

	if reference == "" {
		return "", errorbank.BadRequest("transaction reference is required")
	}

	resp, err := c.core.CheckTransaction(reference)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "status lookup failed")
		return "", errorbank.Upstream("the payment provider could not be reached", errorbank.WithCause(err))
	}
	return resp.TransactionStatus, nil
}
