package probe

import "go.uber.org/fx"

var Module = fx.Module("probe",
	fx.Provide(
		NewDockerProbe,
		NewSystemdProbe,
		NewContainerProbe,
	),
)
