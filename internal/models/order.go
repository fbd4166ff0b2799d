package models

// Order — условный лимит-ордер (STOP или TAKE_PROFIT) в формате fapi.
// Цены и количество — строки, уже округлённые до точности инструмента.
// Живёт только до отправки: состоянием ордеров владеет биржа.
type Order struct {
	Symbol        string        `json:"symbol"`
	Side          Side          `json:"side"`
	PositionSide  PositionSide  `json:"positionSide"`
	ClientOrderID ClientOrderID `json:"newClientOrderId"`
	Type          OrderType     `json:"type"`
	TimeInForce   TimeInForce   `json:"timeInForce"`
	Quantity      string        `json:"quantity"`
	Price         string        `json:"price"`
	StopPrice     string        `json:"stopPrice"`
}

// TradeLog — состояние одного hedge-трейда. Создаётся один раз на старте,
// мутируется только диспетчером fill-событий, не персистится.
type TradeLog struct {
	Symbol         string
	UsdtQty        float64
	StopPrice      float64
	Leverage       int
	AssetPrecision int
	PricePrecision int
	Quantity       string // usdtQty/stopPrice с точностью инструмента

	// Счётчики pullback: -1 = входа ещё не было. Сумма двух счётчиков
	// сравнивается с потолком, дальше бот останавливается.
	LongPullback  int
	ShortPullback int
}
