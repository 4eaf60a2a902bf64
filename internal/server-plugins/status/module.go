package status

import (
	"go.uber.org/fx"
)

var Module = fx.Module("status",
	fx.Provide(
		fx.Annotate(
			NewStatusServerPlugin,
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
)
