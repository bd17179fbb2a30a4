package main

import (
	"errors"
	"fmt"

	"github.com/fadilmartias/grant-portal/internal/apperror"
	"github.com/fadilmartias/grant-portal/internal/bootstrap"
	"github.com/fadilmartias/grant-portal/internal/fixture"
	"github.com/spf13/cobra"
)

func newSeedCmd(open opener) *cobra.Command {
	var withIdentities bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo users, applications, settings and criteria",
		Long: `Seed writes the demo data set to the remote backend in a single batch.

With --with-identities the demo credentials are also provisioned in the
database identity provider, so the demo accounts can log in.

Examples:
  portalctl seed
  portalctl seed --with-identities`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(open, func(b *bootstrap.Backend) error {
				ctx := cmd.Context()
				if err := b.Portal.SeedDatabase(ctx); err != nil {
					return err
				}
				if withIdentities {
					n, err := provisionFixtureIdentities(cmd, b)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "provisioned %d identities\n", n)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&withIdentities, "with-identities", false, "also provision the demo credentials")
	return cmd
}

// provisionFixtureIdentities creates an identity for every fixture user that
// does not have one yet.
func provisionFixtureIdentities(cmd *cobra.Command, b *bootstrap.Backend) (int, error) {
	identity, err := b.DatabaseIdentity()
	if err != nil {
		return 0, err
	}
	data, err := fixture.Load()
	if err != nil {
		return 0, err
	}
	created := 0
	for _, u := range data.Users {
		err := identity.ProvisionIdentity(cmd.Context(), u.UID, u.Email, u.Password)
		if errors.Is(err, apperror.ErrDuplicateAccount) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to provision %s: %w", u.Email, err)
		}
		created++
	}
	return created, nil
}
