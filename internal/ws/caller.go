package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"hedge_bot/internal/models"
	metrics "hedge_bot/internal/modules/metrics/service"
	"hedge_bot/internal/signer"
	"hedge_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
)

// CallError — отказ биржи на запрос торгового сокета.
type CallError struct {
	Code int
	Msg  string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("ws call rejected: code=%d msg=%s", e.Code, e.Msg)
}

type outcome struct {
	result json.RawMessage
	err    error
}

type sender interface {
	Send([]byte) error
}

// Caller превращает общий мультиплексированный сокет в независимые
// request/response вызовы. На каждый запрос — уникальный id и одна
// ожидающая запись; ответ с чужим или уже разрешённым id отбрасывается.
type Caller struct {
	apiKey string
	secret string

	mu      sync.Mutex
	sess    sender
	pending map[string]chan outcome
}

func NewCaller(apiKey, secret string) *Caller {
	return &Caller{
		apiKey:  apiKey,
		secret:  secret,
		pending: make(map[string]chan outcome),
	}
}

// Attach привязывает транспорт. Session создаётся с c.HandleMessage в
// качестве consumer-callback и передаётся сюда же.
func (c *Caller) Attach(sess sender) {
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()
}

// Call подписывает параметры, отправляет конверт и ждёт ответ с тем же id.
// Отмена ctx снимает ожидающую запись — потерянный ответ не вешает вызов
// навсегда.
func (c *Caller) Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error) {
	sp := opentracing.StartSpan("ws.call")
	sp.SetTag("method", method)
	defer sp.Finish()

	c.mu.Lock()
	sess := c.sess
	c.mu.Unlock()
	if sess == nil {
		return nil, fmt.Errorf("ws call %s: no session attached", method)
	}

	id := uuid.NewString()
	ch := make(chan outcome, 1)

	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()

	payload, err := sonic.Marshal(models.SocketRequest{
		ID:     id,
		Method: method,
		Params: signer.SignedParams(c.apiKey, c.secret, params),
	})
	if err != nil {
		c.drop(id)
		return nil, fmt.Errorf("ws call %s: marshal: %w", method, err)
	}

	if err := sess.Send(payload); err != nil {
		c.drop(id)
		return nil, fmt.Errorf("ws call %s: send: %w", method, err)
	}

	select {
	case <-ctx.Done():
		c.drop(id)
		metrics.WsCalls.WithLabelValues(method, "error").Inc()
		return nil, ctx.Err()
	case out := <-ch:
		outcomeLabel := "ok"
		if out.err != nil {
			outcomeLabel = "error"
		}
		metrics.WsCalls.WithLabelValues(method, outcomeLabel).Inc()
		return out.result, out.err
	}
}

// HandleMessage — consumer-callback торгового сокета. Каждая ожидающая
// запись разрешается не более одного раза.
func (c *Caller) HandleMessage(raw []byte) {
	var resp models.SocketResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		logger.Error("[WS] trade frame decode: %v", err)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[resp.ID]
	if ok {
		delete(c.pending, resp.ID)
	}
	c.mu.Unlock()
	if !ok {
		// ответ ни на что из отправленного — дропаем
		return
	}

	if resp.Status == 200 {
		ch <- outcome{result: resp.Result}
		return
	}

	callErr := &CallError{}
	if resp.Error != nil {
		callErr.Code = resp.Error.Code
		callErr.Msg = resp.Error.Msg
	}
	ch <- outcome{err: callErr}
}

// GetPrice — текущая цена инструмента через ticker.price.
func (c *Caller) GetPrice(ctx context.Context, symbol string) (string, error) {
	result, err := c.Call(ctx, "ticker.price", map[string]any{"symbol": symbol})
	if err != nil {
		return "", err
	}

	var ticker struct {
		Price string `json:"price"`
	}
	if err := sonic.Unmarshal(result, &ticker); err != nil {
		return "", fmt.Errorf("ticker.price decode: %w", err)
	}
	if ticker.Price == "" {
		return "", fmt.Errorf("ticker.price: empty price for %s", symbol)
	}
	return ticker.Price, nil
}

func (c *Caller) drop(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
