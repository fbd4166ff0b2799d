package signer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sign — hex-дайджест HMAC-SHA256 над UTF-8 байтами канонической строки.
func Sign(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// BuildQuery собирает канонический query string: ключи сортируются, значения
// рендерятся и url-энкодятся. Одинаковые map дают одинаковую строку вне
// зависимости от порядка вставки — иначе биржа не сойдётся по подписи.
func BuildQuery(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+url.QueryEscape(renderValue(params[k])))
	}
	return strings.Join(pairs, "&")
}

// SignedQuery — REST-вариант: свежий timestamp на каждый вызов,
// signature хвостовым параметром. Возвращает path?query&signature=...
func SignedQuery(secret, path string, params map[string]any) string {
	withTs := make(map[string]any, len(params)+1)
	for k, v := range params {
		withTs[k] = v
	}
	withTs["timestamp"] = time.Now().UnixMilli()

	query := BuildQuery(withTs)
	return path + "?" + query + "&signature=" + Sign(secret, query)
}

// SignedParams — вариант для торгового сокета: в params подмешиваются
// apiKey и timestamp, подпись считается по канонической строке и кладётся
// в signature. Исходная map не мутируется.
func SignedParams(apiKey, secret string, params map[string]any) map[string]any {
	signed := make(map[string]any, len(params)+3)
	for k, v := range params {
		signed[k] = v
	}
	signed["apiKey"] = apiKey
	signed["timestamp"] = time.Now().UnixMilli()
	signed["signature"] = Sign(secret, BuildQuery(signed))

	return signed
}

// renderValue приводит значение к строке до url-энкода. Массивы рендерятся
// JSON-скобками с кавычками: ["a","b"] — так их понимает fapi.
func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) == 0 {
			return "[]"
		}
		return `["` + strings.Join(t, `","`) + `"]`
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
