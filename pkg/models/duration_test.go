package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDurationUnmarshalAcceptsString(t *testing.T) {
	var d Duration

	if err := json.Unmarshal([]byte(`"200ms"`), &d); err != nil {
		t.Fatalf("unmarshal duration string: %v", err)
	}

	if time.Duration(d) != 200*time.Millisecond {
		t.Fatalf("expected 200ms, got %v", time.Duration(d))
	}
}

func TestDurationUnmarshalAcceptsNanoseconds(t *testing.T) {
	var d Duration

	if err := json.Unmarshal([]byte(`200000000`), &d); err != nil {
		t.Fatalf("unmarshal duration number: %v", err)
	}

	if time.Duration(d) != 200*time.Millisecond {
		t.Fatalf("expected 200ms, got %v", time.Duration(d))
	}
}

func TestDurationUnmarshalRejectsOtherTypes(t *testing.T) {
	var d Duration

	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatal("expected error for boolean duration")
	}

	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatal("expected error for malformed duration string")
	}
}

func TestDurationMarshalRoundTrip(t *testing.T) {
	d := Duration(5 * time.Second)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal duration: %v", err)
	}

	if string(data) != `"5s"` {
		t.Fatalf("expected \"5s\", got %s", data)
	}
}
