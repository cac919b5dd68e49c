package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerLevel(t *testing.T) {
	if got := NewLogger(Config{Level: "debug"}).GetLevel(); got != zerolog.DebugLevel {
		t.Fatalf("应解析为 debug 级别, 实际 %s", got)
	}
	if got := NewLogger(Config{Level: "nonsense"}).GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("无法解析的级别应回退到 info, 实际 %s", got)
	}
}

func TestNewLoggerStampsService(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "info", Service: "freightquoter"}).Output(&buf)
	logger.Info().Msg("ping")

	if !strings.Contains(buf.String(), `"service":"freightquoter"`) {
		t.Fatalf("每行日志都应带 service 字段, 实际 %s", buf.String())
	}
}
