package service

import (
	"context"
	"net/http"
)

// Коды "уже установлено" у идемпотентных настроечных ручек fapi.
const (
	codeNoNeedToChangeMarginType   = -4046
	codeNoNeedToChangePositionSide = -4059
	codeNoNeedToChangeMultiAssets  = -4171
)

func (c *Client) ChangeLeverage(ctx context.Context, symbol string, leverage int) error {
	_, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/leverage", map[string]any{
		"symbol":   symbol,
		"leverage": leverage,
	})
	return err
}

// ChangeMarginType переводит символ на ISOLATED/CROSSED.
// Повторная установка того же режима — не ошибка.
func (c *Client) ChangeMarginType(ctx context.Context, symbol, marginType string) error {
	_, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/marginType", map[string]any{
		"symbol":     symbol,
		"marginType": marginType,
	})
	return swallowCode(err, codeNoNeedToChangeMarginType)
}

// SetHedgeMode включает dual-side position: одновременный long и short по
// одному символу.
func (c *Client) SetHedgeMode(ctx context.Context, dualSidePosition bool) error {
	_, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/positionSide/dual", map[string]any{
		"dualSidePosition": dualSidePosition,
	})
	return swallowCode(err, codeNoNeedToChangePositionSide)
}

func (c *Client) SetMultiAssetMode(ctx context.Context, multiAssetsMargin bool) error {
	_, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/multiAssetsMargin", map[string]any{
		"multiAssetsMargin": multiAssetsMargin,
	})
	return swallowCode(err, codeNoNeedToChangeMultiAssets)
}
