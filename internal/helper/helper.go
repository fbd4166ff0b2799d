package helper

import (
	"strconv"
	"strings"
)

// FormatPrice округляет значение до prec знаков после запятой, как toFixed.
func FormatPrice(v float64, prec int) string {
	if prec < 0 {
		prec = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// PricePrecision — число десятичных знаков в строке цены с биржи.
// "5.7710" -> 4, "12" -> 0.
func PricePrecision(price string) int {
	i := strings.LastIndexByte(price, '.')
	if i < 0 {
		return 0
	}
	return len(price) - i - 1
}

// Quantity — размер позиции в базовом активе: notional/цена входа,
// отформатированный до точности количества инструмента.
func Quantity(usdtQty, stopPrice float64, assetPrecision int) string {
	return FormatPrice(usdtQty/stopPrice, assetPrecision)
}
