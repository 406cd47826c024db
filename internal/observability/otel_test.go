package observability

import "testing"

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc , broken, =x, team=export ")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "export" {
		t.Fatalf("ParseHeaders: got=%v", got)
	}
	if ParseHeaders("  ") != nil {
		t.Fatalf("empty: want nil")
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0.25: 0.25, 3: 1} {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v): want=%v got=%v", in, want, got)
		}
	}
}
