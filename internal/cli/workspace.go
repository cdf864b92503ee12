package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgedit/internal/fsops"
	"github.com/danieljhkim/rpgedit/internal/workspace"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage workspace folders",
	Long: `A workspace is a folder with an optional project.json manifest. Opening a
folder without one uses {"maps":[]}.`,
}

var workspaceInitCmd = &cobra.Command{
	Use:   "init <dir>",
	Short: "Write a default project.json into a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceInit,
}

var workspaceShowCmd = &cobra.Command{
	Use:   "show <dir>",
	Short: "Print the manifest a folder opens with",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceShow,
}

func init() {
	workspaceCmd.AddCommand(workspaceInitCmd)
	workspaceCmd.AddCommand(workspaceShowCmd)
}

func runWorkspaceInit(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	manifest, err := a.engine.InitWorkspace(dir)
	switch {
	case errors.Is(err, fsops.ErrExists):
		manifest = workspace.ManifestPath(dir)
		if jsonOutput {
			return outputJSON(out, map[string]any{"manifest": manifest, "created": false})
		}
		PrintWarning(out, fmt.Sprintf("%s already exists", manifest))
		return nil
	case err != nil:
		return err
	}

	if jsonOutput {
		return outputJSON(out, map[string]any{"manifest": manifest, "created": true})
	}
	PrintSuccess(out, fmt.Sprintf("Initialized workspace at %s", dir))
	PrintLabelValue(out, "Manifest", manifest)
	return nil
}

func runWorkspaceShow(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	doc, err := workspace.NewResolver(fsops.NewRealFS()).Resolve(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, doc)
	}
	PrintLabelValue(out, "Workspace", doc.Path)
	if doc.Existing {
		PrintLabelValue(out, "Manifest", doc.ManifestPath)
	} else {
		PrintLabelValue(out, "Manifest", "(none, using default)")
	}
	fmt.Fprintln(out, doc.Body)
	return nil
}
