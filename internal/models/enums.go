package models

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

type PositionSide string

const (
	PositionLong  PositionSide = "LONG"
	PositionShort PositionSide = "SHORT"
)

type OrderType string

const (
	OrderTypeMarket           OrderType = "MARKET"
	OrderTypeLimit            OrderType = "LIMIT"
	OrderTypeStop             OrderType = "STOP"
	OrderTypeStopMarket       OrderType = "STOP_MARKET"
	OrderTypeTakeProfit       OrderType = "TAKE_PROFIT"
	OrderTypeTakeProfitMarket OrderType = "TAKE_PROFIT_MARKET"
)

type TimeInForce string

const (
	TifGTC TimeInForce = "GTC"
	TifIOC TimeInForce = "IOC"
	TifFOK TimeInForce = "FOK"
	// GTX — post-only: ордер отклоняется, если исполнился бы тейкером.
	TifGTX TimeInForce = "GTX"
)

type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// ClientOrderID — фиксированный словарь клиентских id. По суффиксу _TP/_SL
// диспетчер различает, какой из условных ордеров сработал.
type ClientOrderID string

const (
	IDLong    ClientOrderID = "LONG"
	IDLongTP  ClientOrderID = "LONG_TP"
	IDLongSL  ClientOrderID = "LONG_SL"
	IDShort   ClientOrderID = "SHORT"
	IDShortTP ClientOrderID = "SHORT_TP"
	IDShortSL ClientOrderID = "SHORT_SL"
)

type WorkingType string

const (
	WorkingMarkPrice     WorkingType = "MARK_PRICE"
	WorkingContractPrice WorkingType = "CONTRACT_PRICE"
)
