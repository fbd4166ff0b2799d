package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"hedge_bot/internal/models"

	"github.com/bytedance/sonic"
)

// PlaceBatchOrders отправляет пачку ордеров одним вызовом. Ответ — массив
// по числу ордеров; первый элемент с ненулевым code валит весь вызов.
func (c *Client) PlaceBatchOrders(ctx context.Context, orders []models.Order) error {
	payload, err := sonic.Marshal(orders)
	if err != nil {
		return fmt.Errorf("batchOrders marshal: %w", err)
	}

	body, err := c.signedRequest(ctx, http.MethodPost, "/fapi/v1/batchOrders", map[string]any{
		"batchOrders": string(payload),
	})
	if err != nil {
		return err
	}

	var results []struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return fmt.Errorf("batchOrders decode: %w; body=%s", err, string(body))
	}
	for _, r := range results {
		if r.Code != 0 {
			return &APIError{Code: r.Code, Msg: r.Msg}
		}
	}
	return nil
}

// CancelAllOrders снимает все открытые ордера по символу.
func (c *Client) CancelAllOrders(ctx context.Context, symbol string) error {
	_, err := c.signedRequest(ctx, http.MethodDelete, "/fapi/v1/allOpenOrders", map[string]any{
		"symbol": symbol,
	})
	return err
}
