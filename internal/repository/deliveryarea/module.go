package deliveryarea

import "go.uber.org/fx"

// Module provides the delivery area repository to Fx.
var Module = fx.Provide(NewRepository)
