package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopontos/config"
	"gopontos/ledger"
	"gopontos/storage"
	"gopontos/web"

	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local JSON API for imports, catalog, and balances",
	Long: `Start a local HTTP server exposing the gopontos JSON API.

The API accepts spreadsheet uploads on POST /api/import, serves the reward
catalog CRUD endpoints, and answers balance and redemption requests.`,
	Example: `
  # Start local server on the configured port
  gopontos serve

  # Start with explicit db and custom port
  gopontos serve --port 9090 --db ./gopontos.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		dbPath := cfg.Storage.DBPath
		if cmd.Flags().Changed("db") {
			dbPath = serveDBPath
		}

		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: web.NewServer(store, ledger.NewService(store), *cfg),
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		fmt.Printf("Listening on http://localhost:%d\n", port)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local server (overrides config)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "./gopontos.db", "Path to local SQLite database (overrides config)")
}
