package main

import (
	"fmt"

	"github.com/meikuraledutech/skilltree/internal/config"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the postgres schema",
}

var schemaCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the skill tree tables if they don't exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPostgres(cmd, func(cfg config.Config) error {
			pg, pool, err := openPostgres(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := pg.CreateSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema created")
			return nil
		})
	},
}

var schemaDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the skill tree tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPostgres(cmd, func(cfg config.Config) error {
			pg, pool, err := openPostgres(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := pg.DropSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema dropped")
			return nil
		})
	},
}

func init() {
	schemaCmd.AddCommand(schemaCreateCmd, schemaDropCmd)
}

func withPostgres(cmd *cobra.Command, fn func(config.Config) error) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Store.Postgres == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	return fn(cfg)
}
