package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lunar-antiques/lunar/internal/collection"
	"github.com/lunar-antiques/lunar/internal/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the default catalog items and services into empty stores",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
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

		ctx := cmd.Context()
		n, err := collection.Seed(ctx, items)
		if err != nil {
			return err
		}
		m, err := services.Seed(ctx, services.NewStore(database))
		if err != nil {
			return err
		}

		if n == 0 && m == 0 {
			fmt.Fprintln(os.Stderr, "Stores already hold data; nothing seeded.")
			return nil
		}
		fmt.Fprintf(os.Stderr, "Seeded %d item(s) and %d service(s).\n", n, m)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
