package server

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// StartOptions configure the ABCI server.
type StartOptions struct {
	// Bind is the address the ABCI socket server listens on.
	Bind string
	// Debug returns full error information, stack included.
	Debug bool
	// Metrics is the address of the prometheus endpoint. Empty disables it.
	Metrics string
}

// DefaultStartOptions are used for anything neither the config file nor
// the flags set.
var DefaultStartOptions = StartOptions{
	Bind: "tcp://localhost:26658",
}

func parseFlags(defaults StartOptions, args []string) (StartOptions, error) {
	opts := defaults
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&opts.Bind, flagBind, defaults.Bind, "address server listens on")
	startFlags.BoolVar(&opts.Debug, flagDebug, defaults.Debug, "call stack returned on error")
	startFlags.StringVar(&opts.Metrics, flagMetrics, defaults.Metrics, "address of the /metrics endpoint, empty to disable")
	if err := startFlags.Parse(args); err != nil {
		return opts, errors.Wrap(errors.ErrInput, err.Error())
	}
	return opts, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. Metrics are
// registered with reg, which is nil when metrics are disabled.
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// until ctx is cancelled.
func StartCmd(ctx context.Context, gen AppGenerator, logger log.Logger, home string, defaults StartOptions, args []string) error {
	opts, err := parseFlags(defaults, args)
	if err != nil {
		return err
	}

	var reg prometheus.Registerer
	if opts.Metrics != "" {
		registry := prometheus.NewRegistry()
		reg = registry
		srv := &http.Server{
			Addr:    opts.Metrics,
			Handler: metricsMux(registry),
		}
		go func() {
			logger.Info("Serving metrics", "addr", opts.Metrics)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "err", err)
			}
		}()
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()
	}

	app, err := gen(home, logger, opts.Debug, reg)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", opts.Bind)
	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot start server: %s", err)
	}

	<-ctx.Done()
	logger.Info("Stopping ABCI app")
	if err := svr.Stop(); err != nil {
		return errors.Wrapf(errors.ErrState, "stop server: %s", err)
	}
	return nil
}

func metricsMux(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}
