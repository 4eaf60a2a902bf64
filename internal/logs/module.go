package logs

import "go.uber.org/fx"

var Module = fx.Module("logs",
	fx.Provide(
		NewContainerLogFetcher,
		NewAppLogFetcher,
	),
)
