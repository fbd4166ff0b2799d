package signer

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignKnownVector(t *testing.T) {
	// классический тестовый вектор HMAC-SHA256
	got := Sign("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", got)
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{
			name:   "empty",
			params: map[string]any{},
			want:   "",
		},
		{
			name:   "sorted keys",
			params: map[string]any{"symbol": "FILUSDC", "leverage": 10},
			want:   "leverage=10&symbol=FILUSDC",
		},
		{
			name:   "mixed types",
			params: map[string]any{"dualSidePosition": true, "qty": 2.5, "ts": int64(1700000000000)},
			want:   "dualSidePosition=true&qty=2.5&ts=1700000000000",
		},
		{
			name:   "array rendered with json brackets",
			params: map[string]any{"batchOrders": []string{"a", "b"}},
			want:   "batchOrders=" + url.QueryEscape(`["a","b"]`),
		},
		{
			name:   "value urlencoded",
			params: map[string]any{"raw": `{"x":1}`},
			want:   "raw=" + url.QueryEscape(`{"x":1}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.params))
		})
	}
}

func TestBuildQueryDeterministic(t *testing.T) {
	a := map[string]any{"symbol": "FILUSDC", "side": "BUY", "quantity": "2", "price": "6.0900"}
	b := map[string]any{"price": "6.0900", "quantity": "2", "side": "BUY", "symbol": "FILUSDC"}

	qa, qb := BuildQuery(a), BuildQuery(b)
	assert.Equal(t, qa, qb)
	assert.Equal(t, Sign("s3cret", qa), Sign("s3cret", qb))
}

func TestSignedQuery(t *testing.T) {
	got := SignedQuery("s3cret", "/fapi/v1/leverage", map[string]any{"symbol": "FILUSDC", "leverage": 10})

	require.True(t, strings.HasPrefix(got, "/fapi/v1/leverage?"))
	require.Contains(t, got, "timestamp=")
	require.Contains(t, got, "&signature=")

	// подпись сходится по канонической строке без хвостового signature
	query := got[strings.Index(got, "?")+1:]
	i := strings.LastIndex(query, "&signature=")
	payload, sig := query[:i], query[i+len("&signature="):]
	assert.Equal(t, Sign("s3cret", payload), sig)
}

func TestSignedParams(t *testing.T) {
	src := map[string]any{"symbol": "FILUSDC"}
	got := SignedParams("api-key", "s3cret", src)

	require.Contains(t, got, "apiKey")
	require.Contains(t, got, "timestamp")
	require.Contains(t, got, "signature")
	assert.Equal(t, "api-key", got["apiKey"])

	// исходная map не тронута
	assert.Len(t, src, 1)

	// подпись считается по всем параметрам, кроме самой подписи
	unsigned := make(map[string]any, len(got)-1)
	for k, v := range got {
		if k != "signature" {
			unsigned[k] = v
		}
	}
	assert.Equal(t, Sign("s3cret", BuildQuery(unsigned)), got["signature"])
}
