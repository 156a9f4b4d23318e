package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/doms3/chatty/internal"
	"github.com/doms3/chatty/internal/aichat"
	"github.com/doms3/chatty/testutil"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// testEnv is an isolated data home plus a fake completion endpoint
type testEnv struct {
	t     *testing.T
	paths internal.Paths

	mu       sync.Mutex
	status   int
	reply    string
	requests [][]byte
	auth     []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{t: t, status: http.StatusOK, reply: testutil.CompletionJSON}
	lipgloss.SetColorProfile(termenv.Ascii)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		env.mu.Lock()
		env.requests = append(env.requests, body)
		env.auth = append(env.auth, r.Header.Get("Authorization"))
		status, reply := env.status, env.reply
		env.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	dir := testutil.CreateTempDir(t)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("CHATTY_ENDPOINT", server.URL)
	t.Setenv("CHATTY_MODEL", "")
	t.Setenv("CHATTY_TEMPERATURE", "")
	t.Setenv("CHATTY_TIMEOUT", "")
	t.Setenv(internal.CredentialEnv, "sk-test")

	env.paths = internal.NewPaths(filepath.Join(dir, "chatty"))
	return env
}

// respond changes what the endpoint answers with
func (e *testEnv) respond(status int, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status, e.reply = status, body
}

func (e *testEnv) requestCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.requests)
}

func (e *testEnv) lastRequest() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.requests) == 0 {
		e.t.Fatal("no request was made")
	}
	return e.requests[len(e.requests)-1]
}

func (e *testEnv) lastAuth() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.auth) == 0 {
		return ""
	}
	return e.auth[len(e.auth)-1]
}

// writeSession stores s under name and optionally makes it the last session
func (e *testEnv) writeSession(name string, s *aichat.Session, last bool) {
	e.t.Helper()
	if err := e.paths.Ensure(); err != nil {
		e.t.Fatal(err)
	}
	testutil.WriteSessionFixture(e.t, e.paths.Sessions, name, s)
	if last {
		if err := internal.NewSessionStore(e.paths).SetLast(name); err != nil {
			e.t.Fatal(err)
		}
	}
}

func (e *testEnv) loadSession(name string) *aichat.Session {
	e.t.Helper()
	return testutil.LoadSessionFile(e.t, e.paths.SessionPath(name))
}

func (e *testEnv) sessionExists(name string) bool {
	_, err := os.Stat(e.paths.SessionPath(name))
	return err == nil
}

func (e *testEnv) lastName() string {
	name, err := internal.NewSessionStore(e.paths).LastName()
	if err != nil {
		return ""
	}
	return name
}

// writePrompt creates a system prompt file and returns its path
func writePrompt(t *testing.T) string {
	t.Helper()
	path := filepath.Join(testutil.CreateTempDir(t), "system.txt")
	testutil.WriteFile(t, path, []byte("You are terse."))
	return path
}

// run executes the root command with stdin and returns what it printed
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(append([]string{}, args...))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag to its default between executions
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
