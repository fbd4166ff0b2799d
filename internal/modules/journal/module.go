package journal

import (
	"context"

	"hedge_bot/internal/modules/config"
	"hedge_bot/internal/modules/journal/service"
	"hedge_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module поднимает журнал сделок, если в конфиге задан DSN.
// Без DSN провайдер отдаёт nil — Journal nil-безопасен.
func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			func(ctx context.Context, cfg *config.Config) *service.Journal {
				if cfg.DB == "" {
					return nil
				}
				j, err := service.New(ctx, cfg.DB)
				if err != nil {
					logger.Error("[JOURNAL] init failed, journal disabled: %v", err)
					return nil
				}
				return j
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, j *service.Journal) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					j.Close()
					return nil
				},
			})
		}),
	)
}
