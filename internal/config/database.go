package config

import (
	"fmt"
	"log"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver     string `envconfig:"DB_DRIVER" default:"postgres"`
	Host       string `envconfig:"DB_HOST" default:"localhost"`
	Port       string `envconfig:"DB_PORT" default:"5432"`
	User       string `envconfig:"DB_USER"`
	Password   string `envconfig:"DB_PASSWORD"`
	Name       string `envconfig:"DB_NAME"`
	SSLMode    string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone   string `envconfig:"DB_TIMEZONE" default:"Europe/London"`
	SQLitePath string `envconfig:"DB_SQLITE_PATH"`
}

// PostgresDSN builds the key/value DSN understood by the pgx driver.
func (c *DBConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
		c.TimeZone,
	)
}

var (
	dbConfig *DBConfig
	dbOnce   sync.Once
)

func LoadDBConfig() *DBConfig {
	dbOnce.Do(func() {
		cfg := &DBConfig{}
		if err := envconfig.Process("", cfg); err != nil {
			log.Fatalf("error processing database environment: %v", err)
		}
		dbConfig = cfg
	})
	return dbConfig
}
