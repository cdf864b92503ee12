package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/rpgedit/internal/engine"
	"github.com/danieljhkim/rpgedit/internal/menu"
)

var menuCmd = &cobra.Command{
	Use:   "menu [item]",
	Short: "List the editor menu or trigger an item",
	Long: `Without arguments, list the menu items with their identifiers and
accelerators. With an item identifier (e.g. openworkspace, save), run the
action exactly as selecting it in the editor would and print the events it
emitted.`,
	Args: cobra.MaximumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		ids := make([]string, 0, len(menu.All()))
		for _, item := range menu.All() {
			ids = append(ids, item.ID())
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return listMenu(cmd)
	}

	item, err := menu.Parse(args[0])
	if err != nil {
		return err
	}
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	return runFlow(cmd, a, func(a *app) <-chan engine.Result {
		return a.engine.HandleMenu(contextOrBackground(cmd), item)
	})
}

func listMenu(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	entries := menu.Entries()
	if jsonOutput {
		return outputJSON(out, entries)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Label, e.Accelerator})
	}
	PrintTable(out, []string{"ID", "LABEL", "ACCELERATOR"}, rows)
	return nil
}
