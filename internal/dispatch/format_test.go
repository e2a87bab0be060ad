package dispatch

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0.85, "850ms"},
		{0, "0ms"},
		{4.2, "4.2s"},
		{59.94, "59.9s"},
		{0.9996, "1.0s"},
		{0.9994, "999ms"},
		{59.96, "1m 00s"},
		{65, "1m 05s"},
		{600.4, "10m 00s"},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 tokens"},
		{1, "1 token"},
		{999, "999 tokens"},
		{1234, "1,234 tokens"},
		{1234567, "1,234,567 tokens"},
	}
	for _, tt := range tests {
		if got := FormatTokens(tt.n); got != tt.want {
			t.Errorf("FormatTokens(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestShorten(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello..."},
		{"trailing space trimmed", "ab cd", 5, "ab cd"},
		{"multibyte", "héllo wörld", 7, "héll..."},
		{"tiny limit", "hello", 2, "he"},
		{"no limit", "hello", 0, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Shorten(tt.text, tt.limit); got != tt.want {
				t.Errorf("Shorten(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}
