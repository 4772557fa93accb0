package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/lunar-antiques/lunar/internal/mcp"
	"github.com/lunar-antiques/lunar/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing read-only catalog and services tools for AI agents.`,
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

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "lunar MCP server started on stdio (collection=%s)\n", cfg.StoragePath())

		srv := mcpserver.NewServer(items, services.NewStore(database))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
