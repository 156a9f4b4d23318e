package cmd

import (
	"github.com/spf13/cobra"
)

// retryCmd represents the retry command
var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Replace the last reply with a new one",
	Args:  cobra.NoArgs,
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

		result, err := exchange(cmd, sf.Name, s)
		if err != nil {
			return err
		}
		if err := sf.Save(s); err != nil {
			return err
		}
		setLast(sf.Name)

		printReply(cmd.OutOrStdout(), result.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retryCmd)
	retryCmd.Flags().StringVarP(&sessionName, "session", "s", "", "Session to retry (default: last session)")
}
