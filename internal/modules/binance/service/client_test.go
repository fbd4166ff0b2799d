package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"hedge_bot/internal/models"
	"hedge_bot/internal/modules/config"
	"hedge_bot/internal/signer"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.BaseURL = srv.URL
	cfg.API.Key = "test-key"
	cfg.API.Secret = "test-secret"
	return NewClient(cfg)
}

func TestSignedRequestShape(t *testing.T) {
	var (
		gotPath   string
		gotHeader string
		gotQuery  string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Get("X-MBX-APIKEY")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.ChangeLeverage(context.Background(), "FILUSDC", 10))

	assert.Equal(t, "/fapi/v1/leverage", gotPath)
	assert.Equal(t, "test-key", gotHeader)

	values, err := url.ParseQuery(gotQuery)
	require.NoError(t, err)
	assert.Equal(t, "FILUSDC", values.Get("symbol"))
	assert.Equal(t, "10", values.Get("leverage"))
	assert.NotEmpty(t, values.Get("timestamp"))

	// подпись считается по строке запроса без хвостового signature
	i := strings.LastIndex(gotQuery, "&signature=")
	require.Greater(t, i, 0)
	payload, sig := gotQuery[:i], gotQuery[i+len("&signature="):]
	assert.Equal(t, signer.Sign("test-secret", payload), sig)
}

func TestSettingsSwallowAlreadySetCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		call func(c *Client) error
	}{
		{
			name: "margin type already isolated",
			code: codeNoNeedToChangeMarginType,
			call: func(c *Client) error {
				return c.ChangeMarginType(context.Background(), "FILUSDC", "ISOLATED")
			},
		},
		{
			name: "hedge mode already on",
			code: codeNoNeedToChangePositionSide,
			call: func(c *Client) error { return c.SetHedgeMode(context.Background(), true) },
		},
		{
			name: "multi assets already off",
			code: codeNoNeedToChangeMultiAssets,
			call: func(c *Client) error { return c.SetMultiAssetMode(context.Background(), false) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				body, _ := sonic.Marshal(map[string]any{"code": tt.code, "msg": "No need to change."})
				w.Write(body)
			})
			assert.NoError(t, tt.call(c))
		})
	}
}

func TestSettingsPropagateOtherErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1000,"msg":"Unknown error."}`))
	})

	err := c.ChangeMarginType(context.Background(), "FILUSDC", "ISOLATED")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, -1000, apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestPlaceBatchOrders(t *testing.T) {
	var gotOrders []models.Order
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/fapi/v1/batchOrders", r.URL.Path)
		raw := r.URL.Query().Get("batchOrders")
		require.NoError(t, sonic.Unmarshal([]byte(raw), &gotOrders))
		w.Write([]byte(`[{"orderId":1},{"orderId":2}]`))
	})

	orders := []models.Order{
		{Symbol: "FILUSDC", Side: models.SideBuy, ClientOrderID: models.IDLong},
		{Symbol: "FILUSDC", Side: models.SideSell, ClientOrderID: models.IDShort},
	}
	require.NoError(t, c.PlaceBatchOrders(context.Background(), orders))

	require.Len(t, gotOrders, 2)
	assert.Equal(t, models.IDLong, gotOrders[0].ClientOrderID)
	assert.Equal(t, models.IDShort, gotOrders[1].ClientOrderID)
}

func TestPlaceBatchOrdersPartialFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// пачка принята, но один ордер отклонён
		w.Write([]byte(`[{"orderId":1},{"code":-2021,"msg":"Order would immediately trigger."}]`))
	})

	err := c.PlaceBatchOrders(context.Background(), []models.Order{{}, {}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, -2021, apiErr.Code)
}

func TestCancelAllOrders(t *testing.T) {
	var gotMethod, gotSymbol string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotSymbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`{"code":200,"msg":"The operation of cancel all open order is done."}`))
	})

	require.NoError(t, c.CancelAllOrders(context.Background(), "FILUSDC"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "FILUSDC", gotSymbol)
}

func TestListenKey(t *testing.T) {
	var gotMethods []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/fapi/v1/listenKey", r.URL.Path)
		// listen key ходит без подписи, только с api key
		require.Empty(t, r.URL.RawQuery)
		require.Equal(t, "test-key", r.Header.Get("X-MBX-APIKEY"))
		gotMethods = append(gotMethods, r.Method)
		w.Write([]byte(`{"listenKey":"lk-123"}`))
	})

	key, err := c.CreateListenKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lk-123", key)

	require.NoError(t, c.KeepAliveListenKey(context.Background()))
	assert.Equal(t, []string{http.MethodPost, http.MethodPut}, gotMethods)
}

func TestCreateListenKeyEmptyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	_, err := c.CreateListenKey(context.Background())
	require.Error(t, err)
}
