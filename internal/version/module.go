package version

import "go.uber.org/fx"

var Module = fx.Module("version",
	fx.Provide(
		NewRegistryClient,
		func(c *RegistryClient) VersionSource { return c },
		NewReconciler,
	),
)
