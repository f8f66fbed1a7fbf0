package observability

import (
	"context"
	"testing"
)

func TestParseOTLPHeaders(t *testing.T) {
	got := parseOTLPHeaders(" api-key = abc ,broken, =x, team=core")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "core" {
		t.Fatalf("unexpected headers: %v", got)
	}
	if parseOTLPHeaders("") != nil {
		t.Fatalf("empty input should yield nil")
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{Enabled: false})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
	if clampRatio(2) != 1 || clampRatio(-1) != 0 || clampRatio(0.25) != 0.25 {
		t.Fatalf("clampRatio out of range")
	}
}
