package runner

import "hedge_bot/internal/helper"

// Pricer считает уровни условных ордеров от референсной стоп-цены.
// TP/SL/Delta — доли от неё; все значения форматируются до точности цены
// инструмента. Short зеркалит long по знаку.
type Pricer struct {
	Stop      float64
	TP        float64
	SL        float64
	Delta     float64
	Precision int
}

func (p Pricer) at(mult float64) string {
	return helper.FormatPrice(p.Stop*mult, p.Precision)
}

// Entry — общий триггер обоих входных ордеров: уровень пробоя.
func (p Pricer) Entry() string { return helper.FormatPrice(p.Stop, p.Precision) }

func (p Pricer) LongEntryLimit() string     { return p.at(1 + p.TP) }
func (p Pricer) LongTPTrigger() string      { return p.at(1 + p.TP) }
func (p Pricer) LongTPLimit() string        { return p.at(1 - p.TP) }
func (p Pricer) LongSLTrigger() string      { return p.at(1 - p.SL) }
func (p Pricer) LongSLLimit() string        { return p.at(1 - p.TP) }
func (p Pricer) LongReentryTrigger() string { return p.at(1 - p.SL + p.Delta) }

func (p Pricer) ShortEntryLimit() string     { return p.at(1 - p.TP) }
func (p Pricer) ShortTPTrigger() string      { return p.at(1 - p.TP) }
func (p Pricer) ShortTPLimit() string        { return p.at(1 + p.TP) }
func (p Pricer) ShortSLTrigger() string      { return p.at(1 + p.SL) }
func (p Pricer) ShortSLLimit() string        { return p.at(1 + p.TP) }
func (p Pricer) ShortReentryTrigger() string { return p.at(1 + p.SL - p.Delta) }
