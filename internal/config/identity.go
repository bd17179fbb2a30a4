package config

import (
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

const (
	IdentityFirebase = "firebase"
	IdentityDatabase = "database"
)

type IdentityConfig struct {
	Provider string `envconfig:"IDENTITY_PROVIDER" default:"database"`
	APIKey   string `envconfig:"FIREBASE_API_KEY"`
	// BaseURL points at the Identity Toolkit API, or the auth emulator.
	BaseURL string `envconfig:"FIREBASE_AUTH_URL" default:"https://identitytoolkit.googleapis.com"`
}

var (
	identityConfig *IdentityConfig
	identityOnce   sync.Once
)

func LoadIdentityConfig() *IdentityConfig {
	identityOnce.Do(func() {
		cfg := &IdentityConfig{}
		if err := envconfig.Process("", cfg); err != nil {
			log.Fatalf("error processing identity environment: %v", err)
		}
		identityConfig = cfg
	})
	return identityConfig
}
