package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgedit/internal/fsops"
	"github.com/danieljhkim/rpgedit/internal/history"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened workspaces and files",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func runRecent(cmd *cobra.Command, args []string) error {
	paths, _, err := loadConfig()
	if err != nil {
		return err
	}
	entries, err := history.NewStore(fsops.NewRealFS(), paths.History).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if entries == nil {
			entries = []history.Entry{}
		}
		return outputJSON(out, entries)
	}
	if len(entries) == 0 {
		PrintEmptyState(out, "Nothing opened yet")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{string(e.Kind), e.Path, e.OpenedAt.Local().Format("2006-01-02 15:04")})
	}
	PrintTable(out, []string{"KIND", "PATH", "OPENED"}, rows)
	PrintEmptyState(out, PrintCount(len(entries), "entry", "entries"))
	return nil
}
