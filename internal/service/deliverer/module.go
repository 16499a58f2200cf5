package deliverer

import "go.uber.org/fx"

// Module provides the deliverer service to Fx.
var Module = fx.Provide(NewService)
