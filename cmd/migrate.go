package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-escrow/app/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the escrow tables if they do not exist",
	Run: func(_ *cobra.Command, _ []string) {
		cfg := mustLoadConfig()
		db, dialect := mustOpenDB(cfg)
		defer db.Close()

		if err := repository.Migrate(context.Background(), db, dialect); err != nil {
			logrus.WithError(err).Fatal("Migration failed")
		}
		logrus.WithField("driver", string(dialect)).Info("Migration completed")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
