package scan

import (
	"errors"
	"reflect"
	"testing"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		input   string
		pattern string
		from    int
		want    int
	}{
		{"a + b; c", ";", 0, 5},
		{"(a; b); c", ";", 0, 6},
		{"{a; b}; c", ";", 0, 6},
		{"[a; b]; c", ";", 0, 6},
		{"<a; b>; c", ";", 0, 6},
		{"'a;b'; c", ";", 0, 5},
		{"\"a;b\"; c", ";", 0, 5},
		{"`a;b`; c", ";", 0, 5},
		{"'a\\';b'", ";", 0, -1},
		{"f(x)", "(", 0, 1},
		{"x = function (y)", "function", 0, 4},
		{"a;b;c", ";", 2, 3},
		{"abc", ";", 0, -1},
		{"", ";", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Index(tt.input, tt.pattern, tt.from)
			if err != nil {
				t.Fatalf("Index() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Index(%q, %q, %d) = %d, want %d", tt.input, tt.pattern, tt.from, got, tt.want)
			}
		})
	}
}

func TestIndexUnclosedBracket(t *testing.T) {
	_, err := Index("({a; b", ";", 0)
	if err == nil {
		t.Fatal("Index() error = nil, want *DelimiterError")
	}
	var delimErr *DelimiterError
	if !errors.As(err, &delimErr) {
		t.Fatalf("Index() error = %v, want *DelimiterError", err)
	}
	if delimErr.Bracket != '(' {
		t.Errorf("Bracket = %q, want %q", delimErr.Bracket, byte('('))
	}
}

func TestIndexAny(t *testing.T) {
	tests := []struct {
		input    string
		chars    string
		from     int
		want     int
		wantByte byte
	}{
		{"name: string;", ";:(", 0, 4, ':'},
		{"go(a, b): x", ";:(", 0, 2, '('},
		{"x;", ";:(", 0, 1, ';'},
		{"f(a: b); c", ";", 0, 7, ';'},
		{"abc", ";:(", 0, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, gotByte, err := IndexAny(tt.input, tt.chars, tt.from)
			if err != nil {
				t.Fatalf("IndexAny() error = %v", err)
			}
			if got != tt.want || gotByte != tt.wantByte {
				t.Errorf("IndexAny(%q, %q, %d) = (%d, %q), want (%d, %q)",
					tt.input, tt.chars, tt.from, got, gotByte, tt.want, tt.wantByte)
			}
		})
	}
}

func TestFindClosing(t *testing.T) {
	tests := []struct {
		input string
		open  int
		want  int
	}{
		{"{}", 0, 1},
		{"{a{b}c}", 0, 6},
		{"(a(b)(c))", 0, 8},
		{"[x[y]]", 0, 5},
		{"<a<b>>", 0, 5},
		{"{ \"}\" }", 0, 6},
		{"{ '}' }", 0, 6},
		{"{ `}` }", 0, 6},
		{"( { ) } )", 0, 4},
		{"f(a)(b)", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := FindClosing(tt.input, tt.open)
			if err != nil {
				t.Fatalf("FindClosing() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FindClosing(%q, %d) = %d, want %d", tt.input, tt.open, got, tt.want)
			}
		})
	}
}

func TestFindClosingUnclosed(t *testing.T) {
	_, err := FindClosing("a\nb{x", 3)
	if err == nil {
		t.Fatal("FindClosing() error = nil, want *DelimiterError")
	}
	var delimErr *DelimiterError
	if !errors.As(err, &delimErr) {
		t.Fatalf("FindClosing() error = %v, want *DelimiterError", err)
	}
	if delimErr.Bracket != '{' {
		t.Errorf("Bracket = %q, want %q", delimErr.Bracket, byte('{'))
	}
	if delimErr.Line != 2 {
		t.Errorf("Line = %d, want 2", delimErr.Line)
	}
}

func TestFindClosingNotBracket(t *testing.T) {
	if _, err := FindClosing("abc", 0); err == nil {
		t.Error("FindClosing() error = nil, want error for non-bracket")
	}
	if _, err := FindClosing("{}", 5); err == nil {
		t.Error("FindClosing() error = nil, want error for out of range offset")
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		input string
		sep   string
		want  []string
	}{
		{"a,b,c", ",", []string{"a", "b", "c"}},
		{"f(a, b), c", ",", []string{"f(a, b)", " c"}},
		{"f(a, g(b, c))", ",", []string{"f(a, g(b, c))"}},
		{"'a,b',c", ",", []string{"'a,b'", "c"}},
		{"a", ",", []string{"a"}},
		{"", ",", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Split(tt.input, tt.sep)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q, %q) = %q, want %q", tt.input, tt.sep, got, tt.want)
			}
		})
	}
}

func TestSplitTrim(t *testing.T) {
	got, err := SplitTrim(" a , b(c, d) , e ", ",")
	if err != nil {
		t.Fatalf("SplitTrim() error = %v", err)
	}
	want := []string{"a", "b(c, d)", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitTrim() = %q, want %q", got, want)
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   int
	}{
		{"", 0, 1},
		{"abc", 2, 1},
		{"a\nb", 2, 2},
		{"a\nb\nc", 4, 3},
		{"a\nb\nc", 100, 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Line(tt.input, tt.offset); got != tt.want {
				t.Errorf("Line(%q, %d) = %d, want %d", tt.input, tt.offset, got, tt.want)
			}
		})
	}
}

func TestSkipSpace(t *testing.T) {
	tests := []struct {
		input string
		from  int
		want  int
	}{
		{"  x", 0, 2},
		{"x", 0, 0},
		{"\t\n x", 0, 3},
		{"  ", 0, 2},
		{"a  b", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SkipSpace(tt.input, tt.from); got != tt.want {
				t.Errorf("SkipSpace(%q, %d) = %d, want %d", tt.input, tt.from, got, tt.want)
			}
		})
	}
}
