package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/refinelab/feedplan/connectors/simulator"
	"github.com/refinelab/feedplan/infra/logger"
)

var mockSimAddr string

var mockSimCmd = &cobra.Command{
	Use:   "mock-sim",
	Short: "Serve a synthetic simulation service for local development",
	RunE:  runMockSim,
}

func init() {
	mockSimCmd.Flags().StringVar(&mockSimAddr, "addr", ":5000", "listen address")
	rootCmd.AddCommand(mockSimCmd)
}

func runMockSim(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg := logger.New("mock-sim")
	srv := &http.Server{
		Addr:              mockSimAddr,
		Handler:           simulator.NewServerMock().Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logg.Infof("mock simulation service listening on %s", mockSimAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
