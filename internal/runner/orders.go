package runner

import "hedge_bot/internal/models"

// entryOrders — пара встречных условных ордеров на один уровень пробоя.
// Сторона выше рынка получает STOP-вид, сторона ниже — TAKE_PROFIT-вид:
// оба конвертируются в лимитники на одном и том же триггере.
func entryOrders(log *models.TradeLog, p Pricer, aboveMarket bool) []models.Order {
	longType, shortType := models.OrderTypeTakeProfit, models.OrderTypeStop
	if aboveMarket {
		longType, shortType = models.OrderTypeStop, models.OrderTypeTakeProfit
	}

	return []models.Order{
		{
			Symbol:        log.Symbol,
			Side:          models.SideBuy,
			PositionSide:  models.PositionLong,
			ClientOrderID: models.IDLong,
			Type:          longType,
			TimeInForce:   models.TifGTX,
			Quantity:      log.Quantity,
			StopPrice:     p.Entry(),
			Price:         p.LongEntryLimit(),
		},
		{
			Symbol:        log.Symbol,
			Side:          models.SideSell,
			PositionSide:  models.PositionShort,
			ClientOrderID: models.IDShort,
			Type:          shortType,
			TimeInForce:   models.TifGTX,
			Quantity:      log.Quantity,
			StopPrice:     p.Entry(),
			Price:         p.ShortEntryLimit(),
		},
	}
}

func tpOrder(log *models.TradeLog, p Pricer, pos models.PositionSide) models.Order {
	o := models.Order{
		Symbol:        log.Symbol,
		ClientOrderID: tpID(pos),
		Type:          models.OrderTypeTakeProfit,
		TimeInForce:   models.TifGTX,
		Quantity:      log.Quantity,
	}
	if pos == models.PositionLong {
		o.Side, o.PositionSide = models.SideSell, models.PositionLong
		o.StopPrice, o.Price = p.LongTPTrigger(), p.LongTPLimit()
	} else {
		o.Side, o.PositionSide = models.SideBuy, models.PositionShort
		o.StopPrice, o.Price = p.ShortTPTrigger(), p.ShortTPLimit()
	}
	return o
}

func slOrder(log *models.TradeLog, p Pricer, pos models.PositionSide) models.Order {
	o := models.Order{
		Symbol:        log.Symbol,
		ClientOrderID: slID(pos),
		Type:          models.OrderTypeStop,
		TimeInForce:   models.TifGTX,
		Quantity:      log.Quantity,
	}
	if pos == models.PositionLong {
		o.Side, o.PositionSide = models.SideSell, models.PositionLong
		o.StopPrice, o.Price = p.LongSLTrigger(), p.LongSLLimit()
	} else {
		o.Side, o.PositionSide = models.SideBuy, models.PositionShort
		o.StopPrice, o.Price = p.ShortSLTrigger(), p.ShortSLLimit()
	}
	return o
}

// reentryOrder — новый вход той же стороны после стопа. Триггер сдвинут
// на Delta от только что пробитого уровня, чтобы не словить повторное
// срабатывание на том же тике.
func reentryOrder(log *models.TradeLog, p Pricer, pos models.PositionSide) models.Order {
	o := models.Order{
		Symbol:        log.Symbol,
		ClientOrderID: entryID(pos),
		Type:          models.OrderTypeStop,
		TimeInForce:   models.TifGTX,
		Quantity:      log.Quantity,
	}
	if pos == models.PositionLong {
		o.Side, o.PositionSide = models.SideBuy, models.PositionLong
		o.StopPrice, o.Price = p.LongReentryTrigger(), p.LongEntryLimit()
	} else {
		o.Side, o.PositionSide = models.SideSell, models.PositionShort
		o.StopPrice, o.Price = p.ShortReentryTrigger(), p.ShortEntryLimit()
	}
	return o
}

// orderParams — представление ордера для order.place торгового сокета.
func orderParams(o models.Order) map[string]any {
	return map[string]any{
		"symbol":           o.Symbol,
		"side":             string(o.Side),
		"positionSide":     string(o.PositionSide),
		"newClientOrderId": string(o.ClientOrderID),
		"type":             string(o.Type),
		"timeInForce":      string(o.TimeInForce),
		"quantity":         o.Quantity,
		"price":            o.Price,
		"stopPrice":        o.StopPrice,
	}
}
