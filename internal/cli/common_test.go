package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag to its default. Flag values and their
// Changed state persist between executions of the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// setupTestEnv points the data root at a temp dir and selects the terminal
// dialog backend so nothing tries to reach a desktop session.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("RPGEDIT_ROOT", root)
	t.Setenv("RPGEDIT_DIALOG_BACKEND", "terminal")
	t.Setenv("RPGEDIT_LOG_LEVEL", "error")
	t.Setenv("RPGEDIT_LOCALE", "en")
	return root
}

func TestFormatError(t *testing.T) {
	got := FormatError(os.ErrNotExist)
	if !strings.Contains(got, "file does not exist") {
		t.Errorf("FormatError() = %q", got)
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := outputJSON(&buf, map[string]bool{"ok": true}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"ok\": true\n}\n" {
		t.Errorf("outputJSON() = %q", buf.String())
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, []string{"ID", "LABEL"}, [][]string{{"save", "Save"}, {"openworkspace", "Open Workspace..."}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %q", buf.String())
	}
	if !strings.Contains(lines[1], strings.Repeat("-", len("openworkspace"))) {
		t.Errorf("separator should span the widest cell: %q", lines[1])
	}
}

func TestPrintCount(t *testing.T) {
	if got := PrintCount(1, "entry", "entries"); got != "1 entry" {
		t.Errorf("got %q", got)
	}
	if got := PrintCount(3, "entry", "entries"); got != "3 entries" {
		t.Errorf("got %q", got)
	}
}
