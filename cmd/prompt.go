package cmd

import (
	"fmt"
	"strings"

	"github.com/doms3/chatty/internal/aichat"
	"github.com/spf13/cobra"
)

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt <name>",
	Short: "Print the system prompt of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, s, err := loadSession(args[0])
		if err != nil {
			return err
		}
		sf.Close()

		for _, msg := range s.Messages() {
			if msg.Role != aichat.RoleSystem {
				continue
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, msg.Text)
			if !strings.HasSuffix(msg.Text, "\n") {
				fmt.Fprintln(out)
			}
			return nil
		}
		return fmt.Errorf("session %q has no system prompt", sf.Name)
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
}
