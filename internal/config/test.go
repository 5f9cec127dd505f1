package config

import "github.com/caarlos0/env/v11"

// TestConfig points the database test harness at a scratch Postgres.
// Tests skip themselves when this is unset, so a Parse error here means
// "no database available", not a broken environment.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}
