package metrics

import (
	"context"
	"fmt"
	"net/http"

	"hedge_bot/internal/modules/config"
	"hedge_bot/internal/modules/metrics/service"
	"hedge_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module поднимает /metrics на админском порту.
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) {
			if cfg.Service.AdminPort <= 0 {
				return
			}

			mux := http.NewServeMux()
			mux.Handle("/metrics", service.Handler())
			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Service.AdminPort),
				Handler: mux,
			}

			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
							logger.Error("[METRICS] admin server: %v", err)
						}
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					return srv.Shutdown(ctx)
				},
			})
		}),
	)
}
