package cmd

import (
	"github.com/doms3/chatty/internal"
	"github.com/spf13/cobra"
)

var promptFile string

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Start a new session",
	Long: `Start a new session called <name>. The system prompt is read from the
--prompt file and the first user message from standard input. The session is
only kept if the first exchange succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := internal.ValidateName(name); err != nil {
			return err
		}

		s := config.NewSession()
		if err := readSystemPrompt(s, promptFile); err != nil {
			return err
		}
		if err := readUserText(cmd, s); err != nil {
			return err
		}

		// Claim the name before paying for the exchange.
		sf, err := store.Create(name)
		if err != nil {
			return err
		}

		result, err := exchange(cmd, name, s)
		if err == nil {
			err = sf.Save(s)
		}
		if err != nil {
			if derr := sf.Discard(); derr != nil {
				internal.LogWarn("Failed to remove session %s: %v", name, derr)
			}
			return err
		}
		if err := sf.Close(); err != nil {
			internal.LogWarn("Failed to close session %s: %v", name, err)
		}
		setLast(name)

		printReply(cmd.OutOrStdout(), result.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&promptFile, "prompt", "p", "", "File holding the system prompt")
	_ = newCmd.MarkFlagRequired("prompt")
}
