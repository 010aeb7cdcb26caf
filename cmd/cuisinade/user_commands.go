package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newAdminCommand() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrators",
	}

	adminCmd.AddCommand(&cobra.Command{
		Use:   "promote <username>",
		Short: "Grant admin rights to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := newUserService(db).PromoteAdmin(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("promote %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now an administrator\n", args[0])
			return nil
		},
	})

	return adminCmd
}

func newUsersCommand() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect registered users",
	}

	usersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			users, err := newUserService(db).ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"ID", "Username", "Admin"})
			for _, u := range users {
				admin := ""
				if u.IsAdmin {
					admin = "yes"
				}
				tw.AppendRow(table.Row{u.ID, u.Username, admin})
			}
			fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return nil
		},
	})

	return usersCmd
}
