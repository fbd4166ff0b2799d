package main

import (
	"context"
	"log"

	"hedge_bot/internal/modules/binance"
	"hedge_bot/internal/modules/config"
	"hedge_bot/internal/modules/journal"
	"hedge_bot/internal/modules/metrics"
	"hedge_bot/internal/runner"
	"hedge_bot/pkg/logger"
	"hedge_bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		metrics.Module(),
		binance.Module(),
		journal.Module(),
		runner.Module(),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if cfg.Jaeger.Host == "" {
				return nil
			}
			_, closer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					closer()
					return nil
				},
			})
			return nil
		}),
	)

	app.Run()
}
