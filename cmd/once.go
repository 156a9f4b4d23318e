package cmd

import (
	"github.com/spf13/cobra"
)

// onceCmd represents the once command
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single exchange without saving a session",
	Long: `Like 'new', but the session is thrown away after the reply is printed.
Token usage is still recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := config.NewSession()
		if err := readSystemPrompt(s, promptFile); err != nil {
			return err
		}
		if err := readUserText(cmd, s); err != nil {
			return err
		}

		result, err := exchange(cmd, "", s)
		if err != nil {
			return err
		}
		printReply(cmd.OutOrStdout(), result.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(onceCmd)
	onceCmd.Flags().StringVarP(&promptFile, "prompt", "p", "", "File holding the system prompt")
	_ = onceCmd.MarkFlagRequired("prompt")
}
