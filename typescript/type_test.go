package typescript

import "testing"

func TestResolveType(t *testing.T) {
	tests := []struct {
		input string
		want  Type
	}{
		{"string;", TypeString},
		{"number;", TypeNumber},
		{"boolean;", TypeBoolean},
		{"object;", TypeObject},
		{"Date;", TypeDate},
		{"string | null;", TypeString},
		{"null | string;", TypeString},
		{"number | string;", TypeObject},
		{"boolean & true;", TypeObject},
		{"{ a: number };", TypeObject},
		{"{ a: ';' };", TypeObject},
		{"string[];", TypeArray},
		{"number[][];", TypeArray},
		{"Array<string>;", TypeArray},
		{"Foo<Bar>;", Type("Foo")},
		{"'left' | 'right';", TypeString},
		{"\"yes\" | \"no\";", TypeString},
		{"'a' | String;", TypeString},
		{"'a' | 'b' | string;", TypeObject},
		{"string | 'a';", TypeObject},
		{"string | String;", TypeObject},
		{"number | Number;", TypeObject},
		{"HTMLElement;", Type("HTMLElement")},
		{"void;", Type("")},
		{"undefined | never;", Type("")},
		{"null;", Type("")},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, end := ResolveType(tt.input, 0)
			if got != tt.want {
				t.Errorf("ResolveType(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if end != len(tt.input)-1 {
				t.Errorf("end = %d, want %d", end, len(tt.input)-1)
			}
		})
	}
}

func TestResolveTypeTerminators(t *testing.T) {
	tests := []struct {
		input   string
		wantEnd int
	}{
		{"number)", 6},
		{"number,", 6},
		{"number;", 6},
		{"number, string)", 6},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, end := ResolveType(tt.input, 0)
			if got != TypeNumber {
				t.Errorf("ResolveType(%q) = %q, want %q", tt.input, got, TypeNumber)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %d, want %d", end, tt.wantEnd)
			}
		})
	}
}

func TestResolveTypeFrom(t *testing.T) {
	got, end := ResolveType("x: string; y: number;", 2)
	if got != TypeString {
		t.Errorf("ResolveType() = %q, want %q", got, TypeString)
	}
	if end != 9 {
		t.Errorf("end = %d, want 9", end)
	}
}

func TestResolveTypeMalformed(t *testing.T) {
	tests := []string{
		"string",
		"Map<string",
		"{ a: number }",
		"'unterminated",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got, end := ResolveType(input, 0)
			if got != "" || end != -1 {
				t.Errorf("ResolveType(%q) = (%q, %d), want (%q, -1)", input, got, end, "")
			}
		})
	}
}
