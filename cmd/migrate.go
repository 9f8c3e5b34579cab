package cmd

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"landing-waitlist/pkg/clients/postgres"
	"landing-waitlist/pkg/config"
	"landing-waitlist/pkg/store"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the waitlist table and its unique email index (postgres store only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		s, err := store.Open(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		pg, ok := s.(postgres.Client)
		if !ok {
			return errors.New("migrate needs a postgres:// store url")
		}
		if err := pg.Migrate(); err != nil {
			return err
		}
		log.Info().Str("table", cfg.StoreTable).Msg("Migration complete")
		return nil
	},
}
