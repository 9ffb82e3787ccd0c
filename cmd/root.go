package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gopontos/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gopontos",
	Short: "Import sales spreadsheets, manage the reward catalog, and track partner points.",
	Long: `
**********************************************
*               GO PONTOS GO                 *
**********************************************

This CLI imports partner sales spreadsheets (Excel, CSV), normalizes each row
into a points-ledger record in a local SQLite database, answers balance queries,
exports ledger data, and serves the local JSON API used by the catalog backoffice.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
`,
	Example: `
  # Create configuration file
  gopontos config create

  # Import a partner sales export
  gopontos import -i VendasMarco2024.xlsx

  # Check a partner's points balance
  gopontos balance 12345678901

  # Export raw ledger rows
  gopontos export --mode raw --output ./pontos.csv

  # Export per-CNPJ summary
  gopontos export --mode summary --output ./resumo.xlsx

  # Start the local JSON API
  gopontos serve
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.gopontos.yaml, then ./.gopontos.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".gopontos" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gopontos")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: gopontos config create")
	}
}
