package config

import (
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"grant-portal"`
}

var (
	jwtConfig *JWTConfig
	jwtOnce   sync.Once
)

func LoadJWTConfig() *JWTConfig {
	jwtOnce.Do(func() {
		cfg := &JWTConfig{}
		if err := envconfig.Process("", cfg); err != nil {
			log.Fatalf("error processing jwt environment: %v", err)
		}
		if cfg.Secret == "" {
			cfg.Secret = "grant-portal-dev-secret"
			log.Printf("Warning: JWT_SECRET not set, using development secret")
		}
		jwtConfig = cfg
	})
	return jwtConfig
}
