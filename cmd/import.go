package cmd

import (
	"fmt"

	"github.com/doms3/chatty/internal"
	"github.com/doms3/chatty/internal/aichat"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Create a session from a JSON document on stdin",
	Long: `Read a session document ({"model", "temperature", "messages"}) from
standard input and save it as <name>. The document must end with an assistant
reply, and an existing session is never replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := internal.ValidateName(name); err != nil {
			return err
		}

		s, err := aichat.ReadJSON(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := requireAssistantLast(name, s); err != nil {
			return err
		}

		sf, err := store.Create(name)
		if err != nil {
			return err
		}
		if err := sf.Save(s); err != nil {
			if derr := sf.Discard(); derr != nil {
				internal.LogWarn("Failed to remove session %s: %v", name, derr)
			}
			return err
		}
		if err := sf.Close(); err != nil {
			internal.LogWarn("Failed to close session %s: %v", name, err)
		}
		setLast(name)

		internal.PrintInfo(cmd.ErrOrStderr(), fmt.Sprintf("Imported %d message(s) into %s", s.Len(), name))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
