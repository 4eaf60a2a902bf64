package snapshot

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("snapshot",
	fx.Provide(
		NewStore,
		NewPoller,
	),
	fx.Invoke(func(lc fx.Lifecycle, poller *Poller) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				poller.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				poller.Stop()
				return nil
			},
		})
	}),
)
