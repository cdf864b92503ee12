package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	out, _, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(out, "rpgedit") {
		t.Error("expected help to contain 'rpgedit'")
	}
	for _, group := range []string{"Editor:", "Files & Workspaces:", "CLI & Tooling:"} {
		if !strings.Contains(out, group) {
			t.Errorf("expected help to contain group %q", group)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("dev")

	out, _, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "1.2.3") {
		t.Errorf("expected version output to contain version, got %q", out)
	}

	out, _, err = executeCommand(t, "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version = %q", out)
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, _, err := executeCommand(t, "invalid-command")
	if err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"normal version", "1.2.3", "1.2.3"},
		{"empty version", "", "1.2.3"}, // Should not change if empty
		{"dev version", "dev", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.version)
			if rootCmd.Version != tt.want {
				t.Errorf("SetVersion(%q) = %q, want %q", tt.version, rootCmd.Version, tt.want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := [][]string{
		{"serve"}, {"open", "workspace"}, {"open", "file"}, {"menu"},
		{"read"}, {"write"}, {"create"}, {"workspace", "init"}, {"workspace", "show"},
		{"recent"}, {"config"}, {"version"}, {"completion", "bash"},
	}

	for _, path := range subcommands {
		name := strings.Join(path, " ")
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := rootCmd.Find(path)
			if err != nil {
				t.Errorf("Find(%q) error = %v", name, err)
			}
			if subCmd == nil || subCmd.Name() != path[len(path)-1] {
				t.Errorf("Find(%q) returned %v", name, subCmd)
			}
		})
	}
}

func TestCompletionBash(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	if err := rootCmd.GenBashCompletion(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "rpgedit") {
		t.Error("completion script should mention rpgedit")
	}
}
