package config

import "go.uber.org/fx"

var Module = fx.Module("config",
	// Provides specific, smaller configs for consumers
	fx.Provide(func(cfg *ServerConfig) TransportConfig { return cfg.Transport }),
	fx.Provide(func(cfg *ServerConfig) InstanceConfig { return cfg.Instance }),
	fx.Provide(func(cfg *ServerConfig) PollConfig { return cfg.Poll }),
	fx.Provide(func(cfg *ServerConfig) UpdateConfig { return cfg.Update }),
)
