package entid

import (
	"regexp"
	"strings"
	"testing"
)

func TestEncodeTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int64
		expected string
	}{
		{"Zero", 0, "000000"},
		{"One", 1, "000001"},
		{"SixtyTwo", 62, "000010"},
		{"Sortable pair", 1704067200, "1rK5iq"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := encodeTimestamp(tt.seconds); got != tt.expected {
				t.Errorf("encodeTimestamp(%d) = %s, want %s", tt.seconds, got, tt.expected)
			}
		})
	}
}

func TestEncodeTimestampOrdering(t *testing.T) {
	a := encodeTimestamp(1000)
	b := encodeTimestamp(2000)
	if !(a < b) {
		t.Errorf("expected %s < %s", a, b)
	}
}

func TestNew(t *testing.T) {
	idRe := regexp.MustCompile(`^cty_[0-9A-Za-z]{22}$`)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New(PrefixCity)
		if !idRe.MatchString(id) {
			t.Fatalf("malformed id: %s", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}

func TestNewPrefixes(t *testing.T) {
	for _, p := range []string{PrefixCity, PrefixSpot, PrefixHotel, PrefixActivity, PrefixTransport, PrefixRow} {
		if !strings.HasPrefix(New(p), p+"_") {
			t.Errorf("id for prefix %s missing prefix", p)
		}
	}
}
