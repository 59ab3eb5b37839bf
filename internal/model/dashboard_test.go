package model

import "testing"

func TestTimeframeDays(t *testing.T) {
	for tf, want := range map[string]int{"7d": 7, "30d": 30, "90d": 90} {
		if got, ok := TimeframeDays(tf); !ok || got != want {
			t.Errorf("TimeframeDays(%q) = %d, %v", tf, got, ok)
		}
	}
	if _, ok := TimeframeDays("1y"); ok {
		t.Error("1y accepted")
	}
	if _, ok := TimeframeDays(DefaultTimeframe); !ok {
		t.Error("default timeframe rejected")
	}
}
