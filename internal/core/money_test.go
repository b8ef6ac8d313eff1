package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{" 200 ", "200", true},
		{"0.01", "0.01", true},
		{"", "", false},
		{"0", "", false},
		{"-5", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tc.in, err)
			}
			if got.String() != tc.want {
				t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("ParseAmount(%q) expected error, got %s", tc.in, got)
		}
	}
}

func TestParseSignedAmount(t *testing.T) {
	got, err := ParseSignedAmount("-1500,75")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "-1500.75" {
		t.Fatalf("got %s, want -1500.75", got)
	}
	if _, err := ParseSignedAmount("n/a"); err == nil {
		t.Fatal("expected error for non-numeric input")
	}
}

func TestFormatAmount(t *testing.T) {
	d, _ := ParseAmount("130")
	if got := FormatAmount(d); got != "130.00" {
		t.Fatalf("FormatAmount = %q, want %q", got, "130.00")
	}
}
