package metrics

import "go.uber.org/fx"

// Module provides the process metrics registry.
var Module = fx.Provide(New)
