// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing:
//
//	type appConfig struct {
//		Addr        string `env:"HTTP_ADDR" envDefault:":8080"`
//		StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
//	}
//
//	config.MustLoadEnv(".env.local")
//	var cfg appConfig
//	config.MustLoad(&cfg)
//
// Each configuration type is parsed once per process and cached. A failed
// parse is not cached. ResetCache and ForceReloadConfig exist for tests that
// change the environment between loads.
package config
