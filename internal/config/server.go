package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	// MetricsAddr serves prometheus /metrics on a side listener when set.
	MetricsAddr string `env:"METRICS_ADDR"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	MaxUploadMB int `env:"MAX_UPLOAD_MB" envDefault:"8"`

	ScoreboardIndexURL string `env:"SCOREBOARD_INDEX_URL"`
	LeagueCacheTTLMins int    `env:"LEAGUE_CACHE_TTL_MINUTES" envDefault:"360"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
