package cmd

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "fourto",
		Short: "Fourtogenic photo sharing client",
		Long:  "",
	}
)

var file string

func init() {
	rootCmd.PersistentFlags().StringVarP(&file, "config", "c", "", "config file")

	rootCmd.AddCommand(login)
	rootCmd.AddCommand(register)
	rootCmd.AddCommand(logout)
	rootCmd.AddCommand(me)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(like)
	rootCmd.AddCommand(unlike)
	rootCmd.AddCommand(upload)
	rootCmd.AddCommand(albumsCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
