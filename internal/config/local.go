package config

import (
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
)

type LocalConfig struct {
	// Path of the sqlite file backing the local store. Empty keeps the
	// store in memory.
	Path       string `envconfig:"LOCAL_STORE_PATH" default:"data/local.sqlite"`
	BcryptCost int    `envconfig:"LOCAL_BCRYPT_COST"`
}

var (
	localConfig *LocalConfig
	localOnce   sync.Once
)

func LoadLocalConfig() *LocalConfig {
	localOnce.Do(func() {
		cfg := &LocalConfig{}
		if err := envconfig.Process("", cfg); err != nil {
			log.Fatalf("error processing local store environment: %v", err)
		}
		if cfg.BcryptCost == 0 {
			cfg.BcryptCost = bcrypt.DefaultCost
		}
		localConfig = cfg
	})
	return localConfig
}
