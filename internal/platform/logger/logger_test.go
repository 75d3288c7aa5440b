package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVs_RedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"tutor_signature", "Jane Doe",
		"apprentice_id", "3f1c",
		"contract_id", "c-1",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("expected 7 entries, got %d (%v)", len(out), out)
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("signature should be redacted, got %v", out[1])
	}
	if s, _ := out[3].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("apprentice id should be hashed, got %v", out[3])
	}
	if out[5] != "c-1" {
		t.Fatalf("contract id should pass through, got %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("odd trailing key should be kept, got %v", out[6])
	}
}

func TestSanitizeValue_NestedMap(t *testing.T) {
	got := sanitizeValue("details", map[string]interface{}{"password": "x", "count": 3})
	m, ok := got.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map, got %T", got)
	}
	if m["password"] != "[REDACTED]" || m["count"] != 3 {
		t.Fatalf("unexpected nested sanitize result: %v", m)
	}
}
