package cli

import (
	"github.com/felixgeelhaar/teambalance/internal/infrastructure/config"
	"github.com/felixgeelhaar/teambalance/internal/infrastructure/wiring"
)

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func loadServices() (*wiring.AppServices, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg)

	services, err := wiring.BuildAppServices(cfg, logger)
	if err != nil {
		return nil, MapError(err)
	}
	return services, nil
}
