package binance

import (
	"hedge_bot/internal/modules/binance/service"

	"go.uber.org/fx"
)

// Module поднимает подписанный REST-клиент fapi.
func Module() fx.Option {
	return fx.Module("binance",
		fx.Provide(
			service.NewClient,
		),
	)
}
