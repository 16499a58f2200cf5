package billing

import "go.uber.org/fx"

// Module provides the billing service to Fx.
var Module = fx.Provide(NewService)
