package account

import (
	"strings"
	"testing"
)

func TestNewUserCode(t *testing.T) {
	a, b := NewUserCode(), NewUserCode()
	if a == b {
		t.Fatal("codes should differ")
	}
	if !strings.HasPrefix(a, "ADV-") || len(a) != 12 || strings.ToUpper(a) != a {
		t.Fatalf("unexpected code %q", a)
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ana@Example.COM "); got != "ana@example.com" {
		t.Fatalf("unexpected %q", got)
	}
}
