package container

import (
	"go.uber.org/fx"
)

var Module = fx.Module("container",
	fx.Provide(
		fx.Annotate(
			NewContainerServerPlugin,
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
)
