package cli

import (
	"fmt"
	"os"

	"github.com/mariodelcid/POS-Chillers/internal/database"
	"github.com/mariodelcid/POS-Chillers/internal/seed"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	reset bool
	file  string
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the starting menu and packaging stock",
		Long: `Upsert menu items and packaging materials by name.

With --reset every table is dropped and recreated first; all sales,
purchases, time entries and accounting rows are lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadSeed(opts.file)
			if err != nil {
				return err
			}

			db, err := database.Open(rootOpts.Config)
			if err != nil {
				return err
			}
			if opts.reset {
				err = database.Reset(db)
			} else {
				err = database.Migrate(db)
			}
			if err != nil {
				return err
			}

			res, err := seed.Apply(db, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d packaging materials and %d items\n", res.Materials, res.Items)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.reset, "reset", false, "drop and recreate all tables first")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "seed YAML file (default: built-in menu)")

	return cmd
}

func loadSeed(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(b)
}
