package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the stored snapshot loads cleanly",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		store, release, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer release()

		snap, err := store.Load(cmd.Context())
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no snapshot stored")
			return nil
		}
		if err := snap.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d nodes, %d edges\n", len(snap.Nodes), len(snap.Edges))
		return nil
	},
}
