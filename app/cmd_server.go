package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/mapsqr/maps-location-qr/version"
	"github.com/mapsqr/maps-location-qr/web"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewCmdServer(out io.Writer, logger logrus.FieldLogger, config *Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the browser form",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				config.Server.Addr = addr
			}
			logger.WithField("v", version.VERSION).Info("Starting server...")
			return doServer(out, logger, config)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func doServer(out io.Writer, logger logrus.FieldLogger, config *Config) error {
	handler, err := server(logger, config, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	var g run.Group
	{
		ln, err := net.Listen("tcp", config.Server.Addr)
		if err != nil {
			return err
		}
		logger.WithField("addr", ln.Addr().String()).Info("HTTP server listening")
		fmt.Fprintf(out, "Open http://%s/ in your browser.\n", ln.Addr().String())

		srv := &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		g.Add(func() error {
			if err := srv.Serve(ln); err != http.ErrServerClosed {
				return err
			}
			return nil
		}, func(error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}
	{
		cancel := make(chan struct{})

		g.Add(func() error {
			err := interrupt(cancel)
			logger.Warn("Shutting down...")
			return err
		}, func(error) {
			close(cancel)
		})
	}

	return g.Run()
}

// server builds the HTTP handler: the form under / plus the operational
// endpoints.
func server(logger logrus.FieldLogger, config *Config, reg prometheus.Registerer) (http.Handler, error) {
	p, err := newPipeline(config)
	if err != nil {
		return nil, err
	}
	metrics, err := web.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	form, err := web.New(logger.WithField("component", "web"), p.encoder, p.formatter, metrics)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// The form, download and JSON endpoints.
	mux.Handle("/", form.Routes())

	// Health check.
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	// Prometheus metrics.
	mux.Handle("/metrics", promhttp.Handler())

	// Profiling data.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux, nil
}
