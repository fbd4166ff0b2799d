package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
)

const listenKeyPath = "/fapi/v1/listenKey"

// CreateListenKey открывает подписку на user data stream.
func (c *Client) CreateListenKey(ctx context.Context) (string, error) {
	body, err := c.request(ctx, http.MethodPost, listenKeyPath)
	if err != nil {
		return "", err
	}

	var payload struct {
		ListenKey string `json:"listenKey"`
	}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("listenKey decode: %w", err)
	}
	if payload.ListenKey == "" {
		return "", fmt.Errorf("listenKey: empty key in response")
	}
	return payload.ListenKey, nil
}

// KeepAliveListenKey продлевает подписку; биржа гасит ключ через час без
// продления, дергаем раз в 15 минут.
func (c *Client) KeepAliveListenKey(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodPut, listenKeyPath)
	return err
}
