// Command purfectmux replays terminal output onto a purfectmux surface.
//
// Usage:
//
//	purfectmux render session.log       # ANSI snapshot, OSC 8 links re-issued
//	purfectmux links session.log        # live hyperlinks of the surface
//	purfectmux view --config mux.toml session.log   # show it inside the host terminal
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/phroun/purfectmux/cli"
	"github.com/phroun/purfectmux/hyperlink"
	"github.com/phroun/purfectmux/internal/logging"
	"github.com/phroun/purfectmux/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app holds the state shared by all subcommands. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsAddr string
	cols        int
	rows        int

	cfg     cli.Config
	log     *logging.Logger
	pool    *hyperlink.Pool
	metrics *prometheus.Registry
	server  *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "purfectmux",
		Short: "Replay terminal output onto a surface with a bounded hyperlink registry",
		Long: `purfectmux parses terminal output into a surface, keeping OSC 8
hyperlinks in a registry bounded by a process-wide capacity.

Links that share an id are one link; the oldest links are evicted once the
capacity is reached. On output, every link is re-issued under an
identifier generated by purfectmux rather than the application's id.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to a TOML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flags.IntVar(&a.cols, "cols", 0, "surface width in columns")
	flags.IntVar(&a.rows, "rows", 0, "surface height in rows")

	root.AddCommand(newRenderCmd(a), newLinksCmd(a), newViewCmd(a))
	return root
}

// setup loads the configuration, applies flag overrides and builds the
// logger, metrics and hyperlink pool.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.configPath != "" {
		cfg, err := cli.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		a.cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		a.cfg.Log.Format = a.logFormat
	}
	if flags.Changed("cols") {
		a.cfg.Cols = a.cols
	}
	if flags.Changed("rows") {
		a.cfg.Rows = a.rows
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: %v", cli.ErrInvalidConfig, err)
	}
	if strings.EqualFold(a.cfg.Log.Format, "json") {
		a.log = logging.NewJSONLogger(cmd.ErrOrStderr(), level)
	} else {
		a.log = logging.NewTextLogger(cmd.ErrOrStderr(), level)
	}

	a.metrics = prometheus.NewRegistry()
	collector, err := metrics.NewCollector(a.metrics)
	if err != nil {
		return err
	}

	poolOpts := []hyperlink.Option{
		hyperlink.WithObserver(collector),
		hyperlink.WithLogger(a.log.Logger),
	}
	if a.cfg.Hyperlinks.Capacity > 0 {
		poolOpts = append(poolOpts, hyperlink.WithCapacity(a.cfg.Hyperlinks.Capacity))
	}
	a.pool, err = hyperlink.NewPool(poolOpts...)
	if err != nil {
		return fmt.Errorf("%w: %v", cli.ErrInvalidConfig, err)
	}

	if a.metricsAddr != "" {
		a.serveMetrics()
	}
	return nil
}

func (a *app) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	a.server = &http.Server{
		Addr:              a.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", "addr", a.metricsAddr, "error", err)
		}
	}()
	a.log.Info("serving metrics", "addr", a.metricsAddr)
}

func (a *app) teardown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// slogger returns the logger handed to surfaces.
func (a *app) slogger() *slog.Logger {
	return a.log.Logger
}

// openInput returns the named file, or stdin when no file is given.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}
