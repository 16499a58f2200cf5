package deliverer

import "go.uber.org/fx"

// Module provides the deliverer repository to Fx.
var Module = fx.Provide(NewRepository)
