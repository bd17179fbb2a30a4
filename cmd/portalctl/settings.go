package main

import (
	"fmt"
	"strconv"

	"github.com/fadilmartias/grant-portal/internal/bootstrap"
	"github.com/fadilmartias/grant-portal/internal/scoring"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the portal stage toggles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current portal settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(open, func(b *bootstrap.Backend) error {
				settings, err := b.Portal.GetPortalSettings(cmd.Context())
				if err != nil {
					return err
				}
				return writeYAML(cmd, settings)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <stage1Visible|stage2Visible|votingOpen> <true|false>",
		Short: "Change a single portal toggle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			return withBackend(open, func(b *bootstrap.Backend) error {
				settings, err := b.Portal.GetPortalSettings(cmd.Context())
				if err != nil {
					return err
				}
				switch args[0] {
				case "stage1Visible":
					settings.Stage1Visible = value
				case "stage2Visible":
					settings.Stage2Visible = value
				case "votingOpen":
					settings.VotingOpen = value
				default:
					return fmt.Errorf("unknown setting %q", args[0])
				}
				if err := b.Portal.UpdatePortalSettings(cmd.Context(), settings); err != nil {
					return err
				}
				return writeYAML(cmd, settings)
			})
		},
	})
	return cmd
}

func newCriteriaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "criteria",
		Short: "Print the scoring rubric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeYAML(cmd, scoring.DefaultCriteria())
		},
	}
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
