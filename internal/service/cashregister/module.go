package cashregister

import "go.uber.org/fx"

// Module provides the cash register service to Fx.
var Module = fx.Provide(NewService)
