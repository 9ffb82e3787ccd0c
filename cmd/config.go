package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gopontos configuration file values.",
	Long: `Create, edit, display, and delete the gopontos configuration file.

The configuration stores application-wide values:
- server.port
- storage.db_path
- media.dir
- upload.max_size_mb / image_extensions / spreadsheet_extensions`,
	Example: `
  # Create default config in $HOME/.gopontos.yaml
  gopontos config create

  # Show active config and source file
  gopontos config show

  # Open active config in editor (creates example if missing)
  gopontos config edit

  # Delete active config file
  gopontos config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
