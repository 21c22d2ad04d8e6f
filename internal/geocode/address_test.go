package geocode

import "testing"

func TestFormatAllFields(t *testing.T) {
	addr := Address{
		Street:   "123 Main St",
		City:     "Springfield",
		Postcode: "00000",
		Country:  "Testland",
	}

	got, ok := Format(addr)
	if !ok {
		t.Fatalf("expected an address string")
	}
	if got != "123 Main St, Springfield, 00000, Testland" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestFormatFieldOrderIncludesRegion(t *testing.T) {
	addr := Address{
		Street:   "1 Park Ave",
		City:     "New York",
		Postcode: "10001",
		Region:   "NY",
		Country:  "USA",
	}

	got, _ := Format(addr)
	if got != "1 Park Ave, New York, 10001, NY, USA" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestFormatSkipsEmptyFields(t *testing.T) {
	addr := Address{City: "Utrecht", Country: "Netherlands"}

	got, ok := Format(addr)
	if !ok {
		t.Fatalf("expected an address string")
	}
	if got != "Utrecht, Netherlands" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestFormatTrimsWhitespaceOnlyFields(t *testing.T) {
	addr := Address{Street: "  ", City: "Berlin"}

	got, ok := Format(addr)
	if !ok {
		t.Fatalf("expected an address string")
	}
	if got != "Berlin" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestFormatEmptyAddress(t *testing.T) {
	if got, ok := Format(Address{}); ok {
		t.Fatalf("expected no address, got %q", got)
	}
}
