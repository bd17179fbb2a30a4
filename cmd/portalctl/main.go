// Package main implements portalctl, the operator CLI for the grant portal
// backends.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fadilmartias/grant-portal/internal/bootstrap"
	"github.com/fadilmartias/grant-portal/internal/config"
	"github.com/fadilmartias/grant-portal/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// opener returns the backend a command operates on.
type opener func() (*bootstrap.Backend, error)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	zl, err := logger.New(appConfig)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	open := func() (*bootstrap.Backend, error) {
		return bootstrap.Open(bootstrap.LoadConfigs(), zl, nil)
	}
	if err := newRootCmd(open, os.Stdout).Execute(); err != nil {
		zl.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCmd(open opener, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Operate the grant portal data backends",
		Long: `portalctl seeds, provisions and configures the grant portal.

The backend is chosen by PORTAL_BACKEND, the same way the server chooses it.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(
		newSeedCmd(open),
		newCreateUserCmd(open),
		newSettingsCmd(open),
		newCriteriaCmd(),
	)
	return root
}

// withBackend opens the backend for the duration of fn.
func withBackend(open opener, fn func(*bootstrap.Backend) error) error {
	b, err := open()
	if err != nil {
		return fmt.Errorf("failed to open backend: %w", err)
	}
	defer b.Close()
	return fn(b)
}
