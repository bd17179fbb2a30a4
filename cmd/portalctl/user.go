package main

import (
	"fmt"

	"github.com/fadilmartias/grant-portal/internal/bootstrap"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/fadilmartias/grant-portal/internal/service"
	"github.com/spf13/cobra"
)

type createUserFlags struct {
	email       string
	password    string
	displayName string
	role        string
	area        string
	username    string
}

func newCreateUserCmd(open opener) *cobra.Command {
	var f createUserFlags
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account with a profile and credentials",
		Long: `Create-user provisions a login and its profile document.

Handles without a domain get the committee domain appended.

Examples:
  portalctl create-user --email admin --password s3cret --role admin
  portalctl create-user --email rhys --password s3cret --role committee --area Wrexham`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := model.User{
				Email:       service.CanonicalHandle(f.email),
				Username:    f.username,
				DisplayName: f.displayName,
				Role:        model.Role(f.role),
				Area:        f.area,
			}
			if user.DisplayName == "" {
				user.DisplayName = f.email
			}
			return withBackend(open, func(b *bootstrap.Backend) error {
				var created *model.User
				var err error
				if b.Remote != nil {
					created, err = b.Remote.ProvisionUser(cmd.Context(), user, f.password)
				} else {
					created, err = b.Portal.AdminCreateUser(cmd.Context(), user, f.password)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s, uid %s)\n", created.Email, created.Role, created.UID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.email, "email", "", "login email or committee handle")
	cmd.Flags().StringVar(&f.password, "password", "", "initial password")
	cmd.Flags().StringVar(&f.displayName, "name", "", "display name (defaults to the email)")
	cmd.Flags().StringVar(&f.role, "role", string(model.RoleApplicant), "applicant, committee or admin")
	cmd.Flags().StringVar(&f.area, "area", "", "committee area")
	cmd.Flags().StringVar(&f.username, "username", "", "optional login alias")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
