package main

import (
	"Cuisinade/cmd/config"
	migration "Cuisinade/cmd/database/migrate"
	"Cuisinade/internal/utils"
	"Cuisinade/pkg/jwt"
	"Cuisinade/pkg/user"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cuisinade",
		Short:         "Cuisinade recipe sharing server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.LoadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newAdminCommand())
	rootCmd.AddCommand(newUsersCommand())

	return rootCmd
}

// openDB connects and brings the schema up to date.
func openDB() (*gorm.DB, error) {
	db, err := config.ConnectDB()
	if err != nil {
		return nil, err
	}
	if err := migration.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newUserService(db *gorm.DB) user.UserService {
	return user.NewUserService(user.NewUserRepository(db), jwt.NewJWTService())
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := openDB()
			return err
		},
	}
}
