package core

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"0", "0"},
		{"500", "500"},
		{"1000", "1 000"},
		{"15000", "15 000"},
		{"150000", "150 000"},
		{"1500000", "1 500 000"},
		{" 2500 ", "2 500"},
		{"-2500", "-2 500"},
		{"+42", "42"},
		{"12.50", "12.50"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.out {
			t.Fatalf("FormatAmount(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestDisplayAmount(t *testing.T) {
	if got := DisplayAmount("25000", "₸"); got != "25 000 ₸" {
		t.Fatalf("got %q", got)
	}
	if got := DisplayAmount("about 300", "₸"); got != "about 300" {
		t.Fatalf("non-numeric amount should be echoed, got %q", got)
	}
	if got := DisplayAmount("300", ""); got != "300" {
		t.Fatalf("empty currency should not add suffix, got %q", got)
	}
}
