package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"hedge_bot/internal/modules/config"
	"hedge_bot/internal/signer"

	"github.com/opentracing/opentracing-go"
)

// Client — подписанный REST-клиент fapi. Через него идут настройки счёта,
// батчи ордеров, отмена и listen key; всё остальное ядро общается с биржей
// по сокетам.
type Client struct {
	http    *http.Client
	baseURL string

	apiKey    string
	apiSecret string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   cfg.API.BaseURL,
		apiKey:    cfg.API.Key,
		apiSecret: cfg.API.Secret,
	}
}

// signedRequest — запрос с timestamp и signature в query string.
func (c *Client) signedRequest(ctx context.Context, method, path string, params map[string]any) ([]byte, error) {
	sp := opentracing.StartSpan("rest.request")
	sp.SetTag("path", path)
	defer sp.Finish()

	return c.do(ctx, method, signer.SignedQuery(c.apiSecret, path, params))
}

// request — неподписанный запрос, достаточно X-MBX-APIKEY (listen key).
func (c *Client) request(ctx context.Context, method, path string) ([]byte, error) {
	return c.do(ctx, method, path)
}

func (c *Client) do(ctx context.Context, method, pathAndQuery string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}
