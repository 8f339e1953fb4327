package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-storefront/internal/httpapi"
	"github.com/goliatone/go-storefront/pkg/di"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr            string
	ShutdownTimeout time.Duration

	// ready, when set, receives the bound address once the listener is open.
	ready func(addr string)
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the storefront HTTP API.

The source backend, cache and secrets come from the environment (see
STOREFRONT_SOURCE). --addr overrides HTTP_ADDR.

Example:
  storefront serve --addr :8080
  storefront serve --env-file .env.local`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default HTTP_ADDR)")
	cmd.Flags().DurationVar(&opts.ShutdownTimeout, "shutdown-timeout", 25*time.Second, "graceful shutdown limit")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.HTTPAddr = opts.Addr
	}
	logger := opts.logger(cmd.ErrOrStderr())

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg, di.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build storefront", err)
	}
	defer func() {
		if closeErr := container.Close(); closeErr != nil {
			logger.Error("error closing storefront", "error", closeErr)
		}
	}()

	router := httpapi.NewRouter(container.Service(), container.RevalidateHandler(), httpapi.WithLogger(logger))
	srv := &http.Server{
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen on "+cfg.HTTPAddr, err)
	}
	logger.Info("storefront listening", "addr", ln.Addr().String(), "source", cfg.Source)
	if opts.ready != nil {
		opts.ready(ln.Addr().String())
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return WrapExitError(ExitFailure, "server error", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return WrapExitError(ExitFailure, "server shutdown", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
