// Command bpclient drives the bank products view models from a terminal
// against a products API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/bank-products/internal/app/service"
	"github.com/mrops-br/bank-products/internal/app/viewmodel"
	"github.com/mrops-br/bank-products/internal/infrastructure/config"
	"github.com/mrops-br/bank-products/internal/infrastructure/httpclient"
	"github.com/mrops-br/bank-products/internal/infrastructure/repository/rest"
	"github.com/mrops-br/bank-products/internal/infrastructure/telemetry"
	"github.com/mrops-br/bank-products/internal/pkg/clock"
)

const usage = `usage: bpclient <command> [flags]

commands:
  list   [-q query]                 list products, optionally filtered
  show   <id>                       show one product
  create -id -name -description -release [-logo]
  update <id> [-name] [-description] [-logo] [-release]
  delete <id>                       delete a product

environment:
  API_BASE_URL     products API (default http://localhost:3002)
  API_TIMEOUT      request timeout (default 60s)
  SEARCH_DEBOUNCE  search debounce window (default 300ms)
  LOG_LEVEL        debug, info, warn or error (default info)
`

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadConfig()

	// Logs go to stderr so command output stays clean.
	telem, err := telemetry.Setup(&cfg.OTLP, telemetry.Options{
		Level:  cfg.LogLevel,
		Output: os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize telemetry: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telem.Shutdown(shutdownCtx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer := telem.TracerProvider.Tracer("bpclient")
	meter := telem.MeterProvider.Meter("bpclient")
	logger := telem.Logger

	client := httpclient.New(cfg.Client.BaseURL, cfg.Client.Timeout, logger)
	repo := rest.NewProductRepository(client, tracer, logger)
	svc := service.NewProductService(repo, tracer, meter, logger)

	a := &app{
		svc: svc,
		tel: viewmodel.Telemetry{
			Tracer: tracer,
			Meter:  meter,
			Logger: logger,
		},
		clock:    clock.NewRealClock(),
		debounce: cfg.Client.SearchDebounce,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	return a.run(ctx, os.Args[1:])
}
