package http

import (
	"go.uber.org/fx"

	billingtransport "github.com/pratoapp/prato/internal/transport/http/billing"
	deliverertransport "github.com/pratoapp/prato/internal/transport/http/deliverer"
	deliveryareatransport "github.com/pratoapp/prato/internal/transport/http/deliveryarea"
	ordertransport "github.com/pratoapp/prato/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	deliveryareatransport.Module,
	deliverertransport.Module,
	billingtransport.Module,
)
