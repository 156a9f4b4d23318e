package cmd

import (
	"github.com/spf13/cobra"
)

var sessionName string

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Extend a session with text from stdin",
	Long: `Read the next user message from standard input, send the session to the
completion endpoint and print the reply. Without --session the last used
session is extended.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return chatSession(cmd, sessionName)
	},
}

// chatSession extends the named session ("" for the last one) by one
// exchange and saves it.
func chatSession(cmd *cobra.Command, name string) error {
	sf, s, err := loadSession(name)
	if err != nil {
		return err
	}
	defer sf.Close()

	if err := readUserText(cmd, s); err != nil {
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
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&sessionName, "session", "s", "", "Session to extend (default: last session)")
}
