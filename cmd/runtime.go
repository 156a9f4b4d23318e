package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/doms3/chatty/internal"
	"github.com/doms3/chatty/internal/aichat"
	"github.com/spf13/cobra"
)

// State shared by every command, filled in by setup.
var (
	paths  internal.Paths
	store  *internal.SessionStore
	config internal.Config
)

// setup applies the global flags and locates the data home. With
// withConfig it also loads config.yaml and the environment overrides.
func setup(withConfig bool) error {
	internal.SetVerbose(verbose)
	internal.LoadDotEnv()

	p, err := internal.DetectPaths()
	if err != nil {
		return err
	}
	paths = p
	store = internal.NewSessionStore(paths)

	if !withConfig {
		return nil
	}
	cfg, err := internal.LoadConfig(paths.Config)
	if err != nil {
		return err
	}
	config = cfg
	return nil
}

// exchange runs one completion round trip for s and records its token usage
// under name. A reply that arrived but did not fit in the session is still
// printed before the error is returned.
func exchange(cmd *cobra.Command, name string, s *aichat.Session) (aichat.Result, error) {
	if config.Credential == "" {
		internal.PrintWarning(cmd.ErrOrStderr(), internal.CredentialEnv+" is not set, sending the request without credentials")
	}

	client := config.NewClient()
	var result aichat.Result
	err := internal.ShowProgress("Waiting for reply...", func() error {
		var err error
		result, err = client.Extend(cmd.Context(), s, config.Credential)
		return err
	})
	if err != nil {
		switch aichat.KindOf(err) {
		case aichat.ErrSessionFull, aichat.ErrSessionBufferFull:
			if result.Content != "" {
				printReply(cmd.OutOrStdout(), result.Content)
			}
		}
		return result, err
	}

	recordUsage(cmd.Context(), name, s.Model.String(), result)
	return result, nil
}

// recordUsage appends one exchange to the usage ledger. Failures are logged
// but never fail the command: the reply has already been received.
func recordUsage(ctx context.Context, name, model string, result aichat.Result) {
	if err := paths.Ensure(); err != nil {
		internal.LogError("Failed to record usage: %v", err)
		return
	}
	ledger, err := internal.OpenLedger(paths.UsageDB)
	if err != nil {
		internal.LogError("Failed to record usage: %v", err)
		return
	}
	defer ledger.Close()

	if _, err := ledger.Record(ctx, name, model, result.PromptTokens, result.CompletionTokens); err != nil {
		internal.LogError("Failed to record usage: %v", err)
	}
}

func printReply(w io.Writer, text string) {
	fmt.Fprintln(w, text)
}

// readUserText appends standard input to s as a user message
func readUserText(cmd *cobra.Command, s *aichat.Session) error {
	return s.AppendFrom(aichat.RoleUser, cmd.InOrStdin())
}

// readSystemPrompt appends the content of path to s as a system message
func readSystemPrompt(s *aichat.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", aichat.ErrIO, err)
	}
	defer f.Close()
	return s.AppendFrom(aichat.RoleSystem, f)
}

// requireAssistantLast fails unless the last message of s is a reply
func requireAssistantLast(name string, s *aichat.Session) error {
	last, err := s.Last()
	if err != nil {
		return err
	}
	if last.Role != aichat.RoleAssistant {
		return fmt.Errorf("session %q does not end with an assistant reply", name)
	}
	return nil
}

// setLast updates the last-session pointer, warning on failure
func setLast(name string) {
	if err := store.SetLast(name); err != nil {
		internal.LogWarn("Failed to update last session: %v", err)
	}
}

// loadSession opens and parses a named session; "" means the last one. The
// caller closes the returned file.
func loadSession(name string) (*internal.SessionFile, *aichat.Session, error) {
	sf, err := store.Open(name)
	if err != nil {
		if name == "" && errors.Is(err, internal.ErrNoLastSession) {
			return nil, nil, fmt.Errorf("%w: start one with 'chatty new <name>'", err)
		}
		return nil, nil, err
	}
	s, err := sf.Load()
	if err != nil {
		sf.Close()
		return nil, nil, err
	}
	return sf, s, nil
}
