package models

import "encoding/json"

// SocketRequest — конверт запроса торгового сокета (ws-api).
type SocketRequest struct {
	ID     string         `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

type SocketError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// SocketResponse — конверт ответа. Инвариант: id обязан совпасть с ранее
// отправленным и ещё не разрешённым запросом, иначе кадр отбрасывается.
type SocketResponse struct {
	ID     string          `json:"id"`
	Status int             `json:"status"`
	Result json.RawMessage `json:"result"`
	Error  *SocketError    `json:"error"`
}
