package typescript

import (
	"fmt"
	"strings"

	"github.com/dhamidi/tsmeta/typescript/scan"
)

// ParseDeclaration recovers a class model from a typed declaration listing.
// Only the first class in the listing is parsed. A listing without a class
// yields ErrNoClass; an unclosed class body yields a *scan.DelimiterError.
func ParseDeclaration(src []byte) (*ClassModel, error) {
	text := string(src)
	name, parent, bodyOpen, err := findClassHeader(text)
	if err != nil {
		return nil, err
	}
	bodyClose, err := scan.FindClosing(text, bodyOpen)
	if err != nil {
		return nil, fmt.Errorf("parse declaration: %w", err)
	}

	model := &ClassModel{Name: name, Parent: parent}
	cursor := bodyOpen + 1
	for {
		cursor = scan.SkipSpace(text, cursor)
		if cursor >= bodyClose {
			break
		}
		stop, delim, err := scan.IndexAny(text[:bodyClose], ";:(", cursor)
		if err != nil {
			return nil, fmt.Errorf("parse declaration: %w", err)
		}
		if stop < 0 {
			break
		}
		words := strings.Fields(text[cursor:stop])
		if len(words) == 0 {
			cursor = stop + 1
			continue
		}
		memberName := cleanMemberName(words[len(words)-1])
		field := newFieldModel(memberName, words[:len(words)-1])
		switch delim {
		case ';':
			model.Properties = appendField(model.Properties, field)
			cursor = stop + 1
		case ':':
			typ, end := ResolveType(text[:bodyClose], stop+1)
			field.Type = typ
			model.Properties = appendField(model.Properties, field)
			cursor = advancePastType(text, end, stop, bodyClose)
		case '(':
			closeParen, err := scan.FindClosing(text, stop)
			if err != nil {
				return nil, fmt.Errorf("parse declaration: %w", err)
			}
			params, err := parseParams(text, stop+1, closeParen)
			if err != nil {
				return nil, fmt.Errorf("parse declaration: %w", err)
			}
			field.Params = params
			cursor = closeParen + 1
			at, d, err := scan.IndexAny(text[:bodyClose], ";:", cursor)
			if err != nil {
				return nil, fmt.Errorf("parse declaration: %w", err)
			}
			switch {
			case at < 0:
				cursor = bodyClose
			case d == ':':
				typ, end := ResolveType(text[:bodyClose], at+1)
				field.Type = typ
				cursor = advancePastType(text, end, at, bodyClose)
			default:
				cursor = at + 1
			}
			model.Methods = appendField(model.Methods, field)
		}
	}
	return model, nil
}

// findClassHeader locates the first class keyword followed by a name and a
// body, and returns the name, the verbatim extends clause and the offset of
// the opening body brace.
func findClassHeader(text string) (string, string, int, error) {
	from := 0
	for {
		at, err := findKeyword(text, "class", from)
		if err != nil {
			return "", "", -1, err
		}
		if at < 0 {
			return "", "", -1, fmt.Errorf("parse declaration: %w", ErrNoClass)
		}
		from = at + 1
		nameStart := scan.SkipSpace(text, at+len("class"))
		nameEnd := nameStart
		for nameEnd < len(text) && isIdentChar(text[nameEnd]) {
			nameEnd++
		}
		if nameEnd == nameStart {
			continue
		}
		bodyOpen, err := scan.Index(text, "{", nameEnd)
		if err != nil {
			return "", "", -1, err
		}
		if bodyOpen < 0 {
			continue
		}
		parent := ""
		between := text[nameEnd:bodyOpen]
		ext, err := findKeyword(between, "extends", 0)
		if err != nil {
			return "", "", -1, err
		}
		if ext >= 0 {
			parent = strings.TrimSpace(between[ext+len("extends"):])
		}
		return text[nameStart:nameEnd], parent, bodyOpen, nil
	}
}

func parseParams(text string, from, to int) ([]ParamModel, error) {
	params := []ParamModel{}
	cursor := from
	for {
		cursor = scan.SkipSpace(text, cursor)
		if cursor >= to {
			return params, nil
		}
		at, delim, err := scan.IndexAny(text[:to], ",:", cursor)
		if err != nil {
			return nil, err
		}
		if at < 0 {
			if name := cleanMemberName(text[cursor:to]); name != "" {
				params = append(params, ParamModel{Name: name})
			}
			return params, nil
		}
		if delim == ',' {
			if name := cleanMemberName(text[cursor:at]); name != "" {
				params = append(params, ParamModel{Name: name})
			}
			cursor = at + 1
			continue
		}
		name := cleanMemberName(text[cursor:at])
		typ, end := ResolveType(text[:to+1], at+1)
		if end < 0 {
			params = append(params, ParamModel{Name: name})
			return params, nil
		}
		params = append(params, ParamModel{Name: name, Type: typ})
		cursor = end + 1
	}
}

// advancePastType moves the cursor past a resolved type, or past the next
// statement terminator when resolution failed.
func advancePastType(text string, end, from, bound int) int {
	if end >= 0 {
		return end + 1
	}
	semi, _, err := scan.IndexAny(text[:bound], ";", from+1)
	if err != nil || semi < 0 {
		return bound
	}
	return semi + 1
}

func newFieldModel(name string, modifiers []string) FieldModel {
	f := FieldModel{Name: name, Modifiers: modifiers}
	for _, m := range modifiers {
		switch m {
		case "static":
			f.IsStatic = true
		case "private":
			f.IsPrivate = true
		case "protected":
			f.IsProtected = true
		case "public":
			f.IsPublic = true
		case "readonly":
			f.IsReadonly = true
		}
	}
	return f
}

// appendField records f, replacing an earlier member of the same name.
func appendField(fields []FieldModel, f FieldModel) []FieldModel {
	for i := range fields {
		if fields[i].Name == f.Name {
			fields[i] = f
			return fields
		}
	}
	return append(fields, f)
}

func cleanMemberName(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), "?")
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	return name
}

// findKeyword is Index restricted to matches that stand alone as words.
func findKeyword(text, word string, from int) (int, error) {
	for {
		at, err := scan.Index(text, word, from)
		if err != nil || at < 0 {
			return at, err
		}
		after := at + len(word)
		if (at == 0 || !isIdentChar(text[at-1])) && (after >= len(text) || !isIdentChar(text[after])) {
			return at, nil
		}
		from = at + 1
	}
}

func isIdentChar(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
