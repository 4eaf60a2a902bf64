package logs

import (
	"go.uber.org/fx"
)

var Module = fx.Module("logs-plugin",
	fx.Provide(
		fx.Annotate(
			NewLogsServerPlugin,
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
)
