package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lunar-antiques/lunar/internal/config"
	"github.com/lunar-antiques/lunar/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lunar",
	Short: "Lunar Antiques site, catalog and 360° viewer server",
	Long: `Lunar serves the Lunar Antiques website: the public catalog with an
interactive 360° item viewer, the services and contact pages, and the
admin CMS and CRM behind a login.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env file if present (ignore errors)
		_ = godotenv.Load()
		logging.Init()
		logging.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
