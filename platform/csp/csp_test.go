package csp

import "testing"

func TestParseRenderRoundTrip(t *testing.T) {
	header := "default-src 'self'; img-src 'self' data:; style-src 'self'"
	p := Parse(header)

	if got := p.Render(); got != header {
		t.Fatalf("expected %q, got %q", header, got)
	}
}

func TestMergeAddsToExistingDirective(t *testing.T) {
	p := Parse("default-src 'self'; img-src 'self'")

	additions := NewPolicy()
	additions.Add("img-src", "https://tile.openstreetmap.org")
	additions.Add("style-src", "'unsafe-inline'")
	p.Merge(additions)

	want := "default-src 'self'; img-src 'self' https://tile.openstreetmap.org; style-src 'unsafe-inline'"
	if got := p.Render(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMergeIntoEmptyPolicy(t *testing.T) {
	p := Parse("")
	if !p.Empty() {
		t.Fatalf("expected empty policy for empty header")
	}

	additions := NewPolicy()
	additions.Add("img-src", "https://tile.openstreetmap.org")
	p.Merge(additions)

	if got := p.Render(); got != "img-src https://tile.openstreetmap.org" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestAddDeduplicatesSources(t *testing.T) {
	p := NewPolicy()
	p.Add("img-src", "'self'")
	p.Add("img-src", "'self'", "data:")

	if got := p.Render(); got != "img-src 'self' data:" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestParseSkipsMalformedSegments(t *testing.T) {
	p := Parse("default-src 'self';; ;img-src 'self'")

	if got := p.Render(); got != "default-src 'self'; img-src 'self'" {
		t.Fatalf("unexpected render: %q", got)
	}
}
