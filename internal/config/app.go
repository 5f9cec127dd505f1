package config

type AppConfig struct {
	Server    ServerConfig
	Providers ProvidersConfig
	Log       LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	providersCfg, err := LoadProviders()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:    serverCfg,
		Providers: providersCfg,
		Log:       logCfg,
	}, nil
}
