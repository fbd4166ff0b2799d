package service

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError — структурированный отказ fapi: HTTP-статус плюс биржевой код.
type APIError struct {
	Status int
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
}

func (e *APIError) Error() string {
	if e.Code != 0 || e.Msg != "" {
		return fmt.Sprintf("binance api error %d (code=%d): %s", e.Status, e.Code, e.Msg)
	}
	return fmt.Sprintf("binance api error %d", e.Status)
}

func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.Code == 0 && apiErr.Msg == "") {
		return &APIError{Status: status, Msg: string(body)}
	}
	return apiErr
}

// swallowCode гасит один конкретный код "уже в нужном состоянии" у
// идемпотентных настроечных вызовов. Любой другой код уходит наверх.
func swallowCode(err error, code int) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == code {
		return nil
	}
	return err
}
