package deliveryfee

import "go.uber.org/fx"

// Module provides the delivery fee service to Fx.
var Module = fx.Provide(NewService)
