package service

import (
	"go.uber.org/fx"
)

var Module = fx.Module("service",
	fx.Provide(
		fx.Annotate(
			NewServiceServerPlugin,
			fx.ResultTags(`group:"server_plugins"`),
		),
	),
)
