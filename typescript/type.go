package typescript

import (
	"strings"

	"github.com/dhamidi/tsmeta/typescript/scan"
)

// ignoredKeywords are type keywords that never affect reduction.
var ignoredKeywords = map[string]bool{
	"void":      true,
	"null":      true,
	"undefined": true,
	"never":     true,
}

// primitiveKeywords maps the four primitive type keywords to their runtime
// categories. The mapping applies after reduction, so a lowercase keyword
// and a named type of the same category stay distinct members.
var primitiveKeywords = map[string]Type{
	"boolean": TypeBoolean,
	"number":  TypeNumber,
	"string":  TypeString,
	"object":  TypeObject,
}

// ResolveType reduces the type expression starting at from to a runtime
// category. Scanning stops at the first ')', ',' or ';' outside brackets and
// string literals, and the terminator's offset is returned alongside the
// category. Union and intersection members reduce one by one: the first
// concrete member wins, a differing member coarsens the result to Object,
// and Object absorbs every member after it. Members reduce under their
// declared spelling, so the keyword string and the named type String are
// distinct members; the surviving keyword is capitalized only after
// reduction. Object literals collapse to Object, array suffixes to Array,
// quoted literals to String, and generic arguments are discarded. A
// malformed expression yields an empty category and offset -1.
func ResolveType(text string, from int) (Type, int) {
	var members []string
	segment := scan.SkipSpace(text, from)
	override := ""
	i := segment
	for i < len(text) {
		switch text[i] {
		case ')', ',', ';':
			members = commitTypeMember(members, text[segment:i], override)
			return reduceTypeMembers(members), i
		case '|', '&':
			members = commitTypeMember(members, text[segment:i], override)
			override = ""
			i++
			segment = i
		case '{':
			end, err := scan.FindClosing(text, i)
			if err != nil {
				return "", -1
			}
			override = string(TypeObject)
			i = end + 1
			segment = i
		case '[':
			end, err := scan.FindClosing(text, i)
			if err != nil {
				return "", -1
			}
			override = string(TypeArray)
			i = end + 1
			segment = i
		case '<':
			members = commitTypeMember(members, text[segment:i], override)
			override = ""
			end, err := scan.FindClosing(text, i)
			if err != nil {
				return "", -1
			}
			i = end + 1
			segment = i
		case '(':
			end, err := scan.FindClosing(text, i)
			if err != nil {
				return "", -1
			}
			i = end + 1
		case '\'', '"', '`':
			end := quoteEnd(text, i)
			if end < 0 {
				return "", -1
			}
			override = string(TypeString)
			i = end + 1
			segment = i
		default:
			i++
		}
	}
	return "", -1
}

func commitTypeMember(members []string, raw, override string) []string {
	if override != "" {
		return append(members, override)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || ignoredKeywords[raw] {
		return members
	}
	return append(members, raw)
}

func reduceTypeMembers(members []string) Type {
	resolved := ""
	for _, m := range members {
		switch {
		case resolved == "":
			resolved = m
		case resolved == string(TypeObject):
			// Object absorbs
		case m != resolved:
			resolved = string(TypeObject)
		}
	}
	if category, ok := primitiveKeywords[resolved]; ok {
		return category
	}
	return Type(resolved)
}

func quoteEnd(text string, open int) int {
	q := text[open]
	for i := open + 1; i < len(text); i++ {
		if text[i] == q && text[i-1] != '\\' {
			return i
		}
	}
	return -1
}
