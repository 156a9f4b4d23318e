package cmd

import (
	"fmt"

	"github.com/doms3/chatty/internal"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		internal.PrintSuccess(cmd.ErrOrStderr(), "Deleted "+args[0])
		return nil
	},
}

// deleteAllCmd only tells the user what to remove; it never deletes anything.
var deleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Show how to delete every session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "To delete all sessions, remove the directory %s\n", paths.Sessions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(deleteAllCmd)
}
