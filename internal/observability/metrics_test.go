package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/courses", "200", 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/chat", "503", 2*time.Second)
	m.ObserveLLMRequest("gemini-2.0-flash", "stream_chat", "ok", time.Second)
	m.ObserveChatTurn(ChatOutcomeIncomplete, 42)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`ch_api_requests_total{method="GET",route="/api/courses",status="200"} 1`,
		`ch_api_requests_error_total 1`,
		`ch_api_requests_good_latency_total 1`,
		`ch_llm_request_duration_seconds_bucket{model="gemini-2.0-flash",endpoint="stream_chat",status="ok",le="1"} 1`,
		`ch_chat_turns_total{outcome="incomplete"} 1`,
		`ch_chat_reply_chars_total 42`,
		"# TYPE ch_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ObserveChatTurn(ChatOutcomeOK, 1)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil WritePrometheus: %v", err)
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := NewHistogramVec("h", "help", nil, []float64{1, 0.1})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(5)

	var buf bytes.Buffer
	_ = h.WritePrometheus(&buf)
	out := buf.String()
	for _, want := range []string{
		`h_bucket{le="0.1"} 1`,
		`h_bucket{le="1"} 2`,
		`h_bucket{le="+Inf"} 3`,
		`h_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestEscapeLabel(t *testing.T) {
	if got := escapeLabel("a\"b\\c\nd"); got != `a\"b\\c\nd` {
		t.Fatalf("escapeLabel = %q", got)
	}
}
