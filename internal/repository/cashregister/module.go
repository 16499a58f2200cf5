package cashregister

import "go.uber.org/fx"

// Module provides the cash register repository to Fx.
var Module = fx.Provide(NewRepository)
