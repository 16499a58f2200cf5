package migration

import "go.uber.org/fx"

// Module provides the migrator.
var Module = fx.Provide(New)
