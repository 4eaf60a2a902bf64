package update

import (
	"go.uber.org/fx"
)

var Module = fx.Module("update",
	fx.Provide(
		fx.Annotate(
			NewUpdateServerPlugin,
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
)
