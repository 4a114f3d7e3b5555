package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/segap/segap/internal/api"
)

func newServeCmd(opts *globalOpts) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one survey session over a local HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:7700)")

	return cmd
}

func runServe(ctx context.Context, gopts *globalOpts, addr string) error {
	s, err := openSession(ctx, gopts)
	if err != nil {
		return err
	}
	defer s.closeLog()

	ctrl, err := s.newController()
	if err != nil {
		return err
	}

	handler := api.New(ctrl, s.questions,
		api.WithLogger(s.logger),
		api.WithSessionID(s.id),
		api.WithAPIKey(s.cfg.Server.APIKey),
	)

	srv := &http.Server{
		Addr:              firstNonEmpty(addr, s.cfg.Server.Addr),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	fmt.Fprintf(os.Stderr, "segap serve\n")
	fmt.Fprintf(os.Stderr, "  Session:    %s\n", s.id)
	fmt.Fprintf(os.Stderr, "  Questions:  %d\n", s.questions.Len())
	fmt.Fprintf(os.Stderr, "  Listening:  http://%s\n", srv.Addr)
	s.logger.Info("server started", zap.String("addr", srv.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
