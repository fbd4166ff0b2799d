package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// bot_fills_total — обработанные fill-события по стороне и роли ордера.
	Fills = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_fills_total",
			Help: "Fill events processed",
		},
		[]string{"position", "kind"}, // kind: entry|tp|sl
	)

	// bot_orders_placed_total — выставленные ордера по транспорту.
	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_placed_total",
			Help: "Orders placed",
		},
		[]string{"kind", "transport"}, // transport: rest|ws
	)

	// bot_ws_reconnects_total — переподключения сокетов.
	WsReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_ws_reconnects_total",
			Help: "WebSocket reconnects (scheduled and on error)",
		},
		[]string{"socket"},
	)

	// bot_ws_calls_total — вызовы через торговый сокет.
	WsCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_ws_calls_total",
			Help: "Trading socket request/response calls",
		},
		[]string{"method", "outcome"}, // outcome: ok|error
	)

	// bot_pullback_sum — текущая сумма long+short pullback.
	PullbackSum = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_pullback_sum",
			Help: "Sum of long and short pullback counters",
		},
	)
)

func init() {
	prometheus.MustRegister(Fills, OrdersPlaced, WsReconnects, WsCalls, PullbackSum)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
