package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"freight-quoter/internal/apperr"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestExchangeMissingConfig(t *testing.T) {
	ex := NewExchange(ExchangeOptions{}, noopLogger())
	if _, err := ex.CurrentRate(context.Background()); !apperr.IsKind(err, apperr.KindExternalService) {
		t.Fatalf("未配置 API 地址时应返回外部服务错误, 实际 %v", err)
	}

	ex = NewExchange(ExchangeOptions{APIBase: "http://localhost"}, noopLogger())
	if _, err := ex.CurrentRate(context.Background()); err == nil {
		t.Fatal("缺少币种配置应报错")
	}
}

func TestExchangeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("authkey") != "key" {
			t.Fatalf("应携带 authkey, 实际 %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("data") != "AP01" {
			t.Fatalf("应请求 AP01 数据, 实际 %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"cur_unit": "JPY(100)", "cur_nm": "일본 옌", "kftc_bkpr": "941.2", "result": 1},
			{"cur_unit": "USD", "cur_nm": "미국 달러", "kftc_bkpr": "1,313.40", "result": 1},
		})
	}))
	defer srv.Close()

	ex := NewExchange(ExchangeOptions{
		APIBase:  srv.URL,
		APIKey:   "key",
		Currency: "USD",
		Timeout:  time.Second,
	}, noopLogger())

	rate, err := ex.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
	if rate != 1313 {
		t.Fatalf("千分位字符串应解析并取整为 1313, 实际 %d", rate)
	}
}

func TestExchangeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ex := NewExchange(ExchangeOptions{APIBase: srv.URL, Currency: "USD", Timeout: time.Second}, noopLogger())
	if _, err := ex.CurrentRate(context.Background()); !apperr.IsKind(err, apperr.KindExternalService) {
		t.Fatalf("HTTP 500 应返回外部服务错误, 实际 %v", err)
	}
}

func TestExchangeCurrencyAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"cur_unit": "EUR", "kftc_bkpr": "1,430.00", "result": 1},
		})
	}))
	defer srv.Close()

	ex := NewExchange(ExchangeOptions{APIBase: srv.URL, Currency: "USD", Timeout: time.Second}, noopLogger())
	if _, err := ex.CurrentRate(context.Background()); !errors.Is(err, apperr.ErrExternalAPI) {
		t.Fatalf("响应缺少目标币种应命中 ETC401, 实际 %v", err)
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1,313.40", 1313, false},
		{"1,313.50", 1314, false},
		{"941.2", 941, false},
		{" 1320 ", 1320, false},
		{"", 0, true},
		{"-5", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := parseRate(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q 应解析失败", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q 不应解析失败: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q 期望 %d, 实际 %d", tc.raw, tc.want, got)
		}
	}
}

type failingSource struct{}

func (failingSource) CurrentRate(ctx context.Context) (int, error) {
	return 0, apperr.External("ETC401", "boom", nil)
}

func TestFallbackSubstitutesOnFailure(t *testing.T) {
	fb := NewFallback(failingSource{}, 1320, noopLogger())
	rate, err := fb.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("兜底后不应再返回错误: %v", err)
	}
	if rate != 1320 {
		t.Fatalf("应替换为配置的兜底汇率 1320, 实际 %d", rate)
	}
}

func TestFallbackPassesThroughSuccess(t *testing.T) {
	fb := NewFallback(Static{Rate: 1290}, 1320, noopLogger())
	rate, err := fb.CurrentRate(context.Background())
	if err != nil {
		t.Fatalf("内层成功不应报错: %v", err)
	}
	if rate != 1290 {
		t.Fatalf("内层成功时应透传汇率 1290, 实际 %d", rate)
	}
}
