package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ytsync/internal/services/plex"
)

func newPlexCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plex",
		Short: "Inspect the Plex media server",
	}

	cmd.AddCommand(newPlexSectionsCommand(ctx))

	return cmd
}

func newPlexSectionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sections",
		Short: "List Plex library sections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequirePlex(); err != nil {
				return err
			}

			client, err := plex.New(cfg.Plex.URL, cfg.Plex.Token,
				plex.WithTimeout(time.Duration(cfg.Plex.Timeout)*time.Second))
			if err != nil {
				return err
			}

			sections, err := client.Sections(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(sections))
			for _, section := range sections {
				rows = append(rows, []string{section.ID, section.Title, section.Type})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Type"}, rows, 1))
			return nil
		},
	}
}
