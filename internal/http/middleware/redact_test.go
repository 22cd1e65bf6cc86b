package middleware

import (
	"strings"
	"testing"
)

func TestRedactor_String(t *testing.T) {
	r := NewRedactor()
	in := "email=jo@example.com&id=3f2504e0-4f89-41d3-9a0c-0305e82c3301&phone=212-555-1212&status=open"
	got := r.String(in)
	for _, leak := range []string{"jo@example.com", "3f2504e0", "555-1212"} {
		if strings.Contains(got, leak) {
			t.Fatalf("leaked %q in %q", leak, got)
		}
	}
	for _, want := range []string{"[REDACTED:email]", "[REDACTED:id]", "[REDACTED:phone]", "status=open"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if r.String("") != "" {
		t.Fatal("empty input must stay empty")
	}
}

func TestRedactor_Header(t *testing.T) {
	r := NewRedactor(" X-Api-Key ", "")
	if got := r.Header("authorization", []string{"Bearer x"}); got != "[REDACTED]" {
		t.Fatalf("authorization not masked: %q", got)
	}
	if got := r.Header("X-API-KEY", []string{"k"}); got != "[REDACTED]" {
		t.Fatalf("custom header not masked: %q", got)
	}
	if got := r.Header("Accept", []string{"a", "b"}); got != "a, b" {
		t.Fatalf("unexpected passthrough: %q", got)
	}
}
