package cmd

import (
	"fmt"

	"gopontos/ledger"
	"gopontos/storage"

	"github.com/spf13/cobra"
)

var balanceDBPath string

var balanceCmd = &cobra.Command{
	Use:   "balance <cnpj>",
	Short: "Show the points balance for one CNPJ",
	Long: `Show earned, redeemed, and available points for one partner CNPJ.

Earned points come from imported sales rows; redeemed points from catalog
redemptions.`,
	Example: `
  # Show a partner balance
  gopontos balance 12345678901
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(balanceDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		balance, err := ledger.NewService(store).Balance(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("CNPJ: %s\n", balance.CNPJ)
		fmt.Printf("Earned: %.2f\n", balance.Earned)
		fmt.Printf("Redeemed: %.2f\n", balance.Redeemed)
		fmt.Printf("Available: %.2f\n", balance.Available)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceDBPath, "db", "./gopontos.db", "Path to local SQLite database")
}
