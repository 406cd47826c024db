package envutil

import "testing"

func TestInt(t *testing.T) {
	t.Setenv("EXPORT_FETCH_CONCURRENCY", "7")
	if got := Int("EXPORT_FETCH_CONCURRENCY", 4, nil); got != 7 {
		t.Fatalf("Int: want=7 got=%d", got)
	}
	t.Setenv("EXPORT_FETCH_CONCURRENCY", "seven")
	if got := Int("EXPORT_FETCH_CONCURRENCY", 4, nil); got != 4 {
		t.Fatalf("Int (invalid): want=4 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("EXPORT_UPLOAD_ARCHIVES", "on")
	if !Bool("EXPORT_UPLOAD_ARCHIVES", false, nil) {
		t.Fatalf("Bool: want=true")
	}
	t.Setenv("EXPORT_UPLOAD_ARCHIVES", "maybe")
	if Bool("EXPORT_UPLOAD_ARCHIVES", false, nil) {
		t.Fatalf("Bool (invalid): want default false")
	}
}

func TestStringDefault(t *testing.T) {
	t.Setenv("LOCK_BACKEND", "  ")
	if got := String("LOCK_BACKEND", "local", nil); got != "local" {
		t.Fatalf("String: want=local got=%q", got)
	}
}

func TestFloat64AndList(t *testing.T) {
	t.Setenv("OTEL_SAMPLER_RATIO", "0.25")
	if got := Float64("OTEL_SAMPLER_RATIO", 1, nil); got != 0.25 {
		t.Fatalf("Float64: want=0.25 got=%v", got)
	}
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")
	got := List("CORS_ALLOWED_ORIGINS", nil)
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Fatalf("List: got=%q", got)
	}
}
