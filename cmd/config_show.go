package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gopontos/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  gopontos config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
			fmt.Println("Configuration:")
			fmt.Printf("server.port: %d\n", cfg.Server.Port)
			fmt.Printf("storage.db_path: %s\n", cfg.Storage.DBPath)
			fmt.Printf("media.dir: %s\n", cfg.Media.Dir)
			fmt.Printf("upload.max_size_mb: %d\n", cfg.Upload.MaxSizeMB)
			fmt.Printf("upload.image_extensions: %s\n", strings.Join(cfg.Upload.ImageExtensions, ", "))
			fmt.Printf("upload.spreadsheet_extensions: %s\n", strings.Join(cfg.Upload.SpreadsheetExtensions, ", "))
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
