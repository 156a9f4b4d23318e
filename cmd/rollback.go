package cmd

import (
	"github.com/doms3/chatty/internal"
	"github.com/doms3/chatty/internal/aichat"
	"github.com/spf13/cobra"
)

// rollbackCmd represents the rollback command
var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Remove the last exchange from a session",
	Long: `Remove the last assistant reply and the user message it answered, so the
session can be continued differently.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, s, err := loadSession(sessionName)
		if err != nil {
			return err
		}
		defer sf.Close()

		if err := requireAssistantLast(sf.Name, s); err != nil {
			return err
		}
		if err := s.RemoveLast(); err != nil {
			return err
		}
		if last, err := s.Last(); err == nil && last.Role == aichat.RoleUser {
			if err := s.RemoveLast(); err != nil {
				return err
			}
		}

		if err := sf.Save(s); err != nil {
			return err
		}
		setLast(sf.Name)

		internal.PrintSuccess(cmd.ErrOrStderr(), "Rolled back "+sf.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rollbackCmd)
	rollbackCmd.Flags().StringVarP(&sessionName, "session", "s", "", "Session to roll back (default: last session)")
}
