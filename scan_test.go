package tagline

import "testing"

func TestScanQuoted(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		start   int
		want    string
		next    int
		ok      bool
	}{
		{"simple", `"abc" tail`, 0, "abc", 5, true},
		{"empty", `""`, 0, "", 2, true},
		{"offset start", `x="abc"`, 2, "abc", 7, true},
		{"escaped quote", `"say \"hi\""`, 0, `say "hi"`, 12, true},
		{"escaped backslash", `"a\\b"`, 0, `a\b`, 6, true},
		{"lone backslash kept", `"a\nb"`, 0, `a\nb`, 6, true},
		{"backslash before close", `"a\\"`, 0, `a\`, 5, true},
		{"unterminated", `"never ends`, 0, "", 0, false},
		{"unterminated via escape", `"ends with \"`, 0, "", 0, false},
		{"not a quote", `abc`, 0, "", 0, false},
		{"start past end", `"x"`, 5, "", 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, next, ok := scanQuoted(tt.input, tt.start)
			if ok != tt.ok {
				t.Fatalf("scanQuoted(%q, %d) ok = %v, want %v", tt.input, tt.start, ok, tt.ok)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
			if next != tt.next {
				t.Errorf("next = %d, want %d", next, tt.next)
			}
		})
	}
}

func TestScanQuoted_TrailingBackslashAtEnd(t *testing.T) {
	// A backslash as the final byte is not an escape; the quote is still
	// unterminated.
	if _, _, ok := scanQuoted(`"abc\`, 0); ok {
		t.Error("expected failure for quote ending in a bare backslash")
	}
}

func TestScanToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start int
		stops string
		want  string
		next  int
	}{
		{"until space", "abc def", 0, "", "abc", 3},
		{"until stop char", "key:value", 0, ":", "key", 3},
		{"until tab", "a\tb", 0, "", "a", 1},
		{"runs to end", "abc", 0, "", "abc", 3},
		{"empty on boundary", " abc", 0, "", "", 0},
		{"empty on stop", ":abc", 0, ":", "", 0},
		{"mid string", "a=b c", 2, "=", "b", 3},
		{"start at end", "ab", 2, "", "", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, next := scanToken(tt.input, tt.start, tt.stops)
			if got != tt.want || next != tt.next {
				t.Errorf("scanToken(%q, %d, %q) = (%q, %d), want (%q, %d)",
					tt.input, tt.start, tt.stops, got, next, tt.want, tt.next)
			}
		})
	}
}

func TestEscapedAt(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		want  bool
	}{
		{`a"`, 1, false},
		{`\"`, 1, true},
		{`\\"`, 2, false},
		{`\\\"`, 3, true},
		{`"`, 0, false},
	}
	for _, tt := range tests {
		if got := escapedAt(tt.input, tt.pos); got != tt.want {
			t.Errorf("escapedAt(%q, %d) = %v, want %v", tt.input, tt.pos, got, tt.want)
		}
	}
}
