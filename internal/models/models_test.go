package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPrayerMarshalUsesSecondPrecisionUTC(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	p := Prayer{
		ID:         7,
		PersonName: "Grant",
		AuthorName: "Avery",
		Content:    "peace & <rest>",
		CreatedAt:  time.Date(2026, time.January, 3, 8, 4, 5, 987654321, loc),
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		t.Fatalf("encode: %v", err)
	}
	b := bytes.TrimSpace(buf.Bytes())
	got := string(b)
	if !strings.Contains(got, `"created_at":"2026-01-03T14:04:05Z"`) {
		t.Fatalf("unexpected created_at in %s", got)
	}
	if !strings.Contains(got, `"person_name":"Grant"`) {
		t.Fatalf("expected person_name key in %s", got)
	}
	if !strings.Contains(got, `peace & <rest>`) {
		t.Fatalf("expected content without html escaping in %s", got)
	}

	plain, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(plain), `peace \u0026 \u003crest\u003e`) {
		t.Fatalf("json.Marshal should keep its default escaping, got %s", plain)
	}

	var back Prayer
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.CreatedAt.Equal(p.CreatedAt.Truncate(time.Second)) {
		t.Fatalf("created_at = %v, want %v", back.CreatedAt, p.CreatedAt.Truncate(time.Second))
	}
}
