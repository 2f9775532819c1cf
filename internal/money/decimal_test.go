package money

import "testing"

func TestParseAndString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"42.0", "42"},
		{"10", "10"},
		{"-6.75", "-6.75"},
		{"0.1000", "0.1"},
		{"0", "0"},
		{"100.1234", "100.1234"},
		{"100.12345", "100.1234"}, // truncated, not rounded
	}
	for _, c := range cases {
		d, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got := d.String(); got != c.want {
			t.Errorf("Parse(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("not-a-number"); err == nil {
		t.Fatal("expected error for invalid literal")
	}
}

func TestArithmeticExact(t *testing.T) {
	a := must(t, "10.5")
	b := must(t, "0.0001")
	sum := a.Add(b)
	if sum.String() != "10.5001" {
		t.Fatalf("10.5 + 0.0001 = %s, want 10.5001", sum.String())
	}

	neg := must(t, "-10.5")
	if !a.Add(neg).Equal(Zero) {
		t.Fatalf("10.5 + -10.5 should equal zero, got %s", a.Add(neg).String())
	}
}

func TestComparisons(t *testing.T) {
	a := must(t, "5")
	b := must(t, "10")
	if !a.LessThan(b) {
		t.Fatal("5 should be less than 10")
	}
	if !b.GreaterThan(a) {
		t.Fatal("10 should be greater than 5")
	}
	if !a.Neg().IsNegative() {
		t.Fatal("-5 should be negative")
	}
	if !b.IsPositive() {
		t.Fatal("10 should be positive")
	}
}

func must(t *testing.T, s string) Decimal {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return d
}
