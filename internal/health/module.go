package health

import (
	"github.com/birdnet-go/birdnet-mcp/internal/probe"
	"go.uber.org/fx"
)

var Module = fx.Module("health",
	fx.Provide(
		NewClient,
		func(c *Client) probe.HealthQuickChecker { return c },
	),
)
