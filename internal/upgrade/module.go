package upgrade

import "go.uber.org/fx"

var Module = fx.Module("upgrade",
	fx.Provide(NewOrchestrator),
)
