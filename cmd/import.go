package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lunar-antiques/lunar/internal/importer"
	"github.com/lunar-antiques/lunar/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import <glob>...",
	Short: "Bulk import catalog items from YAML files",
	Long: `Reads YAML files with an "items:" list and adds every valid item to the
configured collection store. Patterns support ** (e.g. "catalog/**/*.yml").`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		files, err := importer.Expand(args)
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		items, err := openCollectionStore(cfg, database)
		if err != nil {
			return err
		}

		im := &importer.Importer{
			Store:    items,
			Reporter: progress.NewReporter("Importing"),
		}
		res, err := im.Run(cmd.Context(), files)
		for _, p := range res.Problems {
			fmt.Fprintf(os.Stderr, "  skipped %s\n", p)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Imported %d item(s) from %d file(s), skipped %d.\n", res.Imported, res.Files, res.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
