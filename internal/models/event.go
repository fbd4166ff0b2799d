package models

const EventOrderTradeUpdate = "ORDER_TRADE_UPDATE"

// UserEvent — кадр user data stream. Интересует только ORDER_TRADE_UPDATE,
// остальные типы событий диспетчер отбрасывает по полю e.
type UserEvent struct {
	Event     string      `json:"e"`
	EventTime int64       `json:"E"`
	TradeTime int64       `json:"T"`
	Order     OrderUpdate `json:"o"`
}

// OrderUpdate — вложенная запись ордера из ORDER_TRADE_UPDATE.
// Ядро читает только s/c/S/o/X/ps, остальное — биржевая бухгалтерия.
type OrderUpdate struct {
	Symbol        string        `json:"s"`
	ClientOrderID ClientOrderID `json:"c"`
	Side          Side          `json:"S"`
	Type          OrderType     `json:"o"`
	TimeInForce   TimeInForce   `json:"f"`
	OrigQty       string        `json:"q"`
	OrigPrice     string        `json:"p"`
	AvgPrice      string        `json:"ap"`
	StopPrice     string        `json:"sp"`
	ExecutionType string        `json:"x"`
	Status        OrderStatus   `json:"X"`
	OrderID       int64         `json:"i"`
	LastFilledQty string        `json:"l"`
	FilledQty     string        `json:"z"`
	LastFilledPx  string        `json:"L"`
	TradeTime     int64         `json:"T"`
	TradeID       int64         `json:"t"`
	IsMaker       bool          `json:"m"`
	ReduceOnly    bool          `json:"R"`
	WorkingType   WorkingType   `json:"wt"`
	OrigType      OrderType     `json:"ot"`
	PositionSide  PositionSide  `json:"ps"`
	RealizedPnl   string        `json:"rp"`
}
