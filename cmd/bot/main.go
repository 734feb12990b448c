package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MKhiriev/go-poll-bot/internal/adapter"
	"github.com/MKhiriev/go-poll-bot/internal/client"
	"github.com/MKhiriev/go-poll-bot/internal/config"
	"github.com/MKhiriev/go-poll-bot/internal/console"
	myHTTP "github.com/MKhiriev/go-poll-bot/internal/handler/http"
	"github.com/MKhiriev/go-poll-bot/internal/logger"
	"github.com/MKhiriev/go-poll-bot/internal/metrics"
	"github.com/MKhiriev/go-poll-bot/internal/server"
	"github.com/MKhiriev/go-poll-bot/internal/store"
	"github.com/MKhiriev/go-poll-bot/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("go-poll-bot")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	cfg.App.Version = buildVersion

	ctx := context.Background()

	transport, err := adapter.NewHTTPTransport(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create transport")
	}

	sessions, err := store.NewSessionStore(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create session store")
	}
	defer sessions.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bot := newEchoBot(sessions, log)
	c, err := client.New(transport,
		client.WithUpdateListener(bot),
		client.WithLifecycleListener(bot),
		client.WithExceptionHandler(client.NewPrintExceptionHandler(os.Stderr)),
		client.WithWorkers(cfg.Workers),
		client.WithInput(console.NewInput(os.Stdin, cfg.Workers.ConsoleInput, log)),
		client.WithMetrics(metrics.NewRuntime(registry)),
		client.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create client")
	}

	stopSignals := handleSignals(c, log)
	defer stopSignals()

	if err = run(ctx, c, cfg.Metrics, registry, log); err != nil {
		log.Fatal().Err(err).Msg("bot run error")
	}
}

// run drives the client and, when configured, the metrics endpoint. The
// endpoint is shut down once the client run is over.
func run(ctx context.Context, c *client.Client, cfg config.ClientMetrics, registry *prometheus.Registry, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group := workers.New(log).Add("bot", workers.Func(func(ctx context.Context) error {
		defer cancel()
		return c.Run(ctx)
	}))

	if cfg.Address != "" {
		srv, err := server.NewServer(myHTTP.NewHandler(c, registry, buildVersion, log).Init(), cfg, log)
		if err != nil {
			return err
		}
		group.Add("metrics", srv)
	}

	return group.Run(ctx)
}

// handleSignals makes the first interrupt stop the client gracefully and the
// second one halt it.
func handleSignals(c *client.Client, log *logger.Logger) func() {
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		halt := false
		for {
			select {
			case sig := <-signals:
				log.Info().Str("signal", sig.String()).Bool("halt", halt).Msg("stop signal received")
				stop := c.SignalStop
				if halt {
					stop = c.Halt
				}
				halt = true
				go func() {
					if err := stop(context.Background()); err != nil {
						log.Err(err).Msg("stop request failed")
					}
				}()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
