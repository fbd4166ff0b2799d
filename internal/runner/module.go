package runner

import (
	"context"

	"hedge_bot/internal/modules/config"
	"hedge_bot/internal/notify"
	"hedge_bot/internal/ws"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(cfg *config.Config) *ws.Caller {
				return ws.NewCaller(cfg.API.Key, cfg.API.Secret)
			},
			notify.NewTelegram,
			New,
		),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						if err := r.Start(ctx); err != nil {
							// стартовая ошибка идёт тем же crash-путём,
							// что и фатальная ошибка диспетчера
							r.failFast(err)
						}
					}()
					return nil
				},
				OnStop: func(_ context.Context) error {
					r.Close()
					return nil
				},
			})
		}),
	)
}
