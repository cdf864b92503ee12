package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after applying config.yaml, RPGEDIT_*
environment variables and defaults. The data root is ~/.rpgedit unless
RPGEDIT_ROOT is set.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths, cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, map[string]any{"paths": paths, "config": cfg})
	}

	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "# %s\n", paths.Config)
	_, _ = fmt.Fprint(out, string(data))
	return nil
}
