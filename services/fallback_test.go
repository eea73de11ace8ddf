package services

import "testing"

func TestFallbackRotationWraps(t *testing.T) {
	table := NewFallbackTable()
	n := table.Len("en")
	if n < 2 {
		t.Fatalf("Expected at least 2 English fallback entries, got %d", n)
	}
	if table.Next("en", 0) == table.Next("en", 1) {
		t.Error("Expected consecutive rotations to differ")
	}
	if table.Next("en", 0) != table.Next("en", n) {
		t.Error("Expected rotation to wrap around the table length")
	}
}

func TestFallbackLanguages(t *testing.T) {
	table := NewFallbackTable()
	if table.Len("es") == 0 {
		t.Fatal("Expected Spanish fallback entries")
	}
	if table.Next("es", 0) == table.Next("en", 0) {
		t.Error("Expected language-specific fallback text")
	}
	// Unknown languages resolve to the default table instead of failing.
	if table.Next("fr", 0) != table.Next("en", 0) {
		t.Error("Expected unknown languages to use the default entries")
	}
}
