package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective packaging consumption rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				path = rootOpts.Config.PackagingRulesPath
			}
			rules, err := loadRules(path)
			if err != nil {
				return err
			}

			source := path
			if source == "" {
				source = "built-in"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# rules: %s\n", source)
			return rules.WriteTable(out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "rules YAML file (overrides PACKAGING_RULES_PATH)")

	return cmd
}
