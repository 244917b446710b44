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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/nutricare/nutrikit/devserver"
)

var (
	servePort    int
	seedEmail    string
	seedPassword string
	seedFullName string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local development API server",
	Long: `Runs the in-memory NutriCare development server. All accounts and
tokens live in memory and are lost on restart. A demo account is seeded
at startup; activation and reset codes are written to the log instead
of being emailed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := devserver.New(devserver.WithLogger(cliLogger()))
		if err := s.SeedAccount(seedEmail, seedPassword, seedFullName, "dietitian"); err != nil {
			return fmt.Errorf("seeding demo account: %w", err)
		}

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Mount("/", s.Router())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", servePort),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		printBanner()
		fmt.Printf("Dev server on port %d (demo account: %s / %s)\n", servePort, seedEmail, seedPassword)
		fmt.Printf("API docs at http://localhost:%d/docs\n", servePort)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			fmt.Printf("\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&seedEmail, "seed-email", "demo@nutricare.dev", "Demo account email")
	serveCmd.Flags().StringVar(&seedPassword, "seed-password", "nutricare-demo", "Demo account password")
	serveCmd.Flags().StringVar(&seedFullName, "seed-name", "Demo Dietitian", "Demo account display name")
}
