package config

import (
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Backend modes. Local keeps everything in the embedded local store, remote
// uses the document database with an identity provider.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

type AppConfig struct {
	Name    string `envconfig:"APP_NAME" default:"Grant Portal"`
	Env     string `envconfig:"APP_ENV" default:"development"`
	Port    string `envconfig:"APP_PORT" default:":8080"`
	BaseURL string `envconfig:"APP_URL"`
	Backend string `envconfig:"PORTAL_BACKEND" default:"local"`
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		cfg := &AppConfig{}
		if err := envconfig.Process("", cfg); err != nil {
			log.Fatalf("error processing app environment: %v", err)
		}
		if cfg.Backend != BackendLocal && cfg.Backend != BackendRemote {
			log.Printf("Warning: unknown PORTAL_BACKEND %q, defaulting to %s", cfg.Backend, BackendLocal)
			cfg.Backend = BackendLocal
		}
		appConfig = cfg
	})
	return appConfig
}
