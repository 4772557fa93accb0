package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lunar-antiques/lunar/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize lunar configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the server, storage and admin login, and writes a .lunar.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s. Start the server with `lunar server` (port %d).\n", cfgFile, cfg.Server.Port)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
