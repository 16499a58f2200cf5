package deliveryarea

import "go.uber.org/fx"

// Module provides the delivery area service to Fx.
var Module = fx.Provide(NewService)
