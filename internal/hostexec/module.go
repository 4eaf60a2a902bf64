package hostexec

import "go.uber.org/fx"

var Module = fx.Module("hostexec",
	fx.Provide(NewRunner),
)
