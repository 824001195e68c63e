package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/tsmeta/typescript/scan"
)

// Option configures compiled-source extraction.
type Option func(*parseOptions)

type parseOptions struct {
	annotations map[string]bool
}

// WithAnnotations marks decorator names as design-time annotations.
// Annotation applications are recorded separately from decorators and
// removed from the rewritten source. Qualified decorator names match on
// their final segment.
func WithAnnotations(names ...string) Option {
	return func(o *parseOptions) {
		for _, n := range names {
			o.annotations[n] = true
		}
	}
}

// classRegion locates a class body inside compiled output.
type classRegion struct {
	native    bool
	helper    string
	start     int
	bodyOpen  int
	bodyClose int
}

// ctorRegion locates a constructor body inside a class region.
type ctorRegion struct {
	found     bool
	bodyOpen  int
	bodyClose int
}

// edit is a pending replacement of text[start:end] in the rewritten source.
type edit struct {
	start       int
	end         int
	replacement string
}

// ParseCompiled recovers runtime metadata from the compiled form of the
// class described by decl. Both the ES5 prototype convention and native
// class syntax are recognized, the prototype convention first. The result
// carries constructor defaults, verbatim method bodies, decorator
// applications partitioned into decorators and annotations, and a copy of
// the source with annotation applications and the inheritance helper call
// removed.
func ParseCompiled(src []byte, decl *ClassModel, opts ...Option) (*CompiledSource, error) {
	if decl == nil || decl.Name == "" {
		return nil, fmt.Errorf("parse compiled: class declaration required")
	}
	options := parseOptions{annotations: map[string]bool{}}
	for _, opt := range opts {
		opt(&options)
	}
	text := string(src)

	compiled := &CompiledSource{
		Defaults:     map[string]string{},
		MethodBodies: map[string]string{},
		Decorators:   map[string][]Decorator{},
		Annotations:  map[string][]Decorator{},
	}

	region, err := findClassRegion(text, decl.Name)
	if err != nil {
		return nil, fmt.Errorf("parse compiled: %w", err)
	}
	compiled.IsNativeClass = region.native
	compiled.HelperName = region.helper

	ctor, err := findConstructor(text, region, decl.Name)
	if err != nil {
		return nil, fmt.Errorf("parse compiled: %w", err)
	}
	scanStart := region.bodyClose + 1
	if ctor.found {
		scanStart = ctor.bodyClose + 1
		if err := collectDefaults(text, ctor, decl, compiled.Defaults); err != nil {
			return nil, fmt.Errorf("parse compiled: %w", err)
		}
	}

	var edits []edit
	if !region.native {
		e, found, err := extendsRemoval(text, region, decl.Name)
		if err != nil {
			return nil, fmt.Errorf("parse compiled: %w", err)
		}
		if found {
			edits = append(edits, e)
		}
	}

	if err := collectMethodBodies(text, region, decl, compiled.MethodBodies); err != nil {
		return nil, fmt.Errorf("parse compiled: %w", err)
	}

	decorateEdits, err := collectDecorators(text, scanStart, decl, region.helper, options.annotations, compiled)
	if err != nil {
		return nil, fmt.Errorf("parse compiled: %w", err)
	}
	edits = append(edits, decorateEdits...)

	compiled.Rewritten = applyEdits(text, edits)
	return compiled, nil
}

// findClassRegion recognizes the prototype convention header
// "var Name = (function" first and native "class Name" second.
func findClassRegion(text, name string) (classRegion, error) {
	var region classRegion
	at, err := scan.Index(text, "var "+name+" = (function", 0)
	if err != nil {
		return region, err
	}
	if at >= 0 {
		paramOpen, err := scan.Index(text, "(", at+len("var "+name+" = (function"))
		if err != nil {
			return region, err
		}
		if paramOpen < 0 {
			return region, ErrNoClass
		}
		paramClose, err := scan.FindClosing(text, paramOpen)
		if err != nil {
			return region, err
		}
		bodyOpen, err := scan.Index(text, "{", paramClose+1)
		if err != nil {
			return region, err
		}
		if bodyOpen < 0 {
			return region, ErrNoClass
		}
		bodyClose, err := scan.FindClosing(text, bodyOpen)
		if err != nil {
			return region, err
		}
		region = classRegion{start: at, bodyOpen: bodyOpen, bodyClose: bodyClose}
		return region, nil
	}

	at, err = findKeyword(text, "class "+name, 0)
	if err != nil {
		return region, err
	}
	if at < 0 {
		return region, ErrNoClass
	}
	bodyOpen, err := scan.Index(text, "{", at+len("class ")+len(name))
	if err != nil {
		return region, err
	}
	if bodyOpen < 0 {
		return region, ErrNoClass
	}
	bodyClose, err := scan.FindClosing(text, bodyOpen)
	if err != nil {
		return region, err
	}
	return classRegion{
		native:    true,
		helper:    helperBinding(text, at),
		start:     at,
		bodyOpen:  bodyOpen,
		bodyClose: bodyClose,
	}, nil
}

// helperBinding returns the variable name when the class expression is bound
// as "let X = class ...", "var X = class ..." or "const X = class ...".
func helperBinding(text string, classAt int) string {
	i := skipSpaceBack(text, classAt)
	if i == 0 || text[i-1] != '=' {
		return ""
	}
	i = skipSpaceBack(text, i-1)
	end := i
	for i > 0 && isIdentChar(text[i-1]) {
		i--
	}
	if i == end {
		return ""
	}
	name := text[i:end]
	j := skipSpaceBack(text, i)
	for _, kw := range []string{"let", "var", "const"} {
		if !strings.HasSuffix(text[:j], kw) {
			continue
		}
		k := j - len(kw)
		if k == 0 || !isIdentChar(text[k-1]) {
			return name
		}
	}
	return ""
}

func findConstructor(text string, region classRegion, name string) (ctorRegion, error) {
	pattern := "constructor"
	if !region.native {
		pattern = "function " + name
	}
	at, err := findKeyword(text[:region.bodyClose], pattern, region.bodyOpen+1)
	if err != nil {
		return ctorRegion{}, err
	}
	if at < 0 {
		return ctorRegion{}, nil
	}
	paramOpen, err := scan.Index(text[:region.bodyClose], "(", at+len(pattern))
	if err != nil {
		return ctorRegion{}, err
	}
	if paramOpen < 0 {
		return ctorRegion{}, nil
	}
	paramClose, err := scan.FindClosing(text, paramOpen)
	if err != nil {
		return ctorRegion{}, err
	}
	bodyOpen, err := scan.Index(text[:region.bodyClose], "{", paramClose+1)
	if err != nil {
		return ctorRegion{}, err
	}
	if bodyOpen < 0 {
		return ctorRegion{}, nil
	}
	bodyClose, err := scan.FindClosing(text, bodyOpen)
	if err != nil {
		return ctorRegion{}, err
	}
	return ctorRegion{found: true, bodyOpen: bodyOpen, bodyClose: bodyClose}, nil
}

// collectDefaults records assignments to known properties on the receiver in
// the constructor body. A receiver is a bare this or the _this alias the ES5
// emit uses in derived constructors; longer identifiers ending in this do not
// match. A later assignment to the same property overwrites an earlier one.
func collectDefaults(text string, ctor ctorRegion, decl *ClassModel, defaults map[string]string) error {
	pos := ctor.bodyOpen + 1
	for {
		at, err := scan.Index(text[:ctor.bodyClose], "this.", pos)
		if err != nil {
			return err
		}
		if at < 0 {
			return nil
		}
		if !bareReceiver(text, at) {
			pos = at + 1
			continue
		}
		nameStart := at + len("this.")
		nameEnd := nameStart
		for nameEnd < ctor.bodyClose && isIdentChar(text[nameEnd]) {
			nameEnd++
		}
		pos = nameEnd
		name := text[nameStart:nameEnd]
		if name == "" || decl.Property(name) == nil {
			continue
		}
		eq := scan.SkipSpace(text, nameEnd)
		if eq+1 >= ctor.bodyClose || text[eq] != '=' || text[eq+1] == '=' {
			continue
		}
		semi, err := scan.Index(text[:ctor.bodyClose], ";", eq+1)
		if err != nil {
			return err
		}
		if semi < 0 {
			return nil
		}
		defaults[name] = strings.TrimSpace(text[eq+1 : semi])
		pos = semi + 1
	}
}

// bareReceiver reports whether the "this." match at offset at sits on a bare
// this or _this receiver rather than the tail of a longer identifier or a
// member access.
func bareReceiver(text string, at int) bool {
	if at > 0 && text[at-1] == '_' {
		at--
	}
	return at == 0 || (!isIdentChar(text[at-1]) && text[at-1] != '.')
}

// extendsRemoval locates the "__extends(Name, _super);" helper call emitted
// for derived classes in the prototype convention.
func extendsRemoval(text string, region classRegion, name string) (edit, bool, error) {
	at, err := scan.Index(text[:region.bodyClose], "__extends(", region.bodyOpen+1)
	if err != nil {
		return edit{}, false, err
	}
	if at < 0 {
		return edit{}, false, nil
	}
	parenOpen := at + len("__extends(") - 1
	parenClose, err := scan.FindClosing(text, parenOpen)
	if err != nil {
		return edit{}, false, err
	}
	args, err := scan.SplitTrim(text[parenOpen+1:parenClose], ",")
	if err != nil {
		return edit{}, false, err
	}
	if len(args) == 0 || args[0] != name {
		return edit{}, false, nil
	}
	end := parenClose + 1
	if sp := scan.SkipSpace(text, end); sp < len(text) && text[sp] == ';' {
		end = sp + 1
	}
	return expandLineEdit(text, edit{start: at, end: end}), true, nil
}

func collectMethodBodies(text string, region classRegion, decl *ClassModel, bodies map[string]string) error {
	for i := range decl.Methods {
		m := decl.Methods[i].Name
		if m == "" || m == "constructor" {
			continue
		}
		var at int
		var err error
		if region.native {
			at, err = findNativeMethod(text, region, m)
		} else {
			pattern := decl.Name + ".prototype." + m + " = function"
			if decl.Methods[i].IsStatic {
				pattern = decl.Name + "." + m + " = function"
			}
			at, err = scan.Index(text[:region.bodyClose], pattern, region.bodyOpen+1)
		}
		if err != nil {
			return err
		}
		if at < 0 {
			continue
		}
		paramOpen, err := scan.Index(text[:region.bodyClose], "(", at)
		if err != nil {
			return err
		}
		if paramOpen < 0 {
			continue
		}
		paramClose, err := scan.FindClosing(text, paramOpen)
		if err != nil {
			return err
		}
		bodyOpen, err := scan.Index(text[:region.bodyClose], "{", paramClose+1)
		if err != nil {
			return err
		}
		if bodyOpen < 0 {
			continue
		}
		bodyClose, err := scan.FindClosing(text, bodyOpen)
		if err != nil {
			return err
		}
		bodies[m] = text[bodyOpen : bodyClose+1]
	}
	return nil
}

// findNativeMethod finds a method definition at the top level of a native
// class body. Method bodies are bracket regions, so the search never matches
// call sites inside other methods.
func findNativeMethod(text string, region classRegion, name string) (int, error) {
	from := region.bodyOpen + 1
	for {
		at, err := findKeyword(text[:region.bodyClose], name, from)
		if err != nil || at < 0 {
			return at, err
		}
		next := scan.SkipSpace(text, at+len(name))
		if next < region.bodyClose && text[next] == '(' {
			return at, nil
		}
		from = at + 1
	}
}

// collectDecorators processes every decoration-helper call from offset from
// onward. Field-level applications target "Name.prototype" with a quoted
// member name; class-level applications target the class (or its binding
// alias) and are recorded under ClassKey. Applications whose annotations are
// stripped contribute edits for the rewritten source.
func collectDecorators(text string, from int, decl *ClassModel, helper string, annotations map[string]bool, out *CompiledSource) ([]edit, error) {
	var edits []edit
	name := decl.Name
	pos := from
	for {
		at, err := scan.Index(text, "__decorate(", pos)
		if err != nil {
			return nil, err
		}
		if at < 0 {
			return edits, nil
		}
		parenOpen := at + len("__decorate(") - 1
		parenClose, err := scan.FindClosing(text, parenOpen)
		if err != nil {
			return nil, err
		}
		pos = parenClose + 1

		bracketOpen := scan.SkipSpace(text, parenOpen+1)
		if bracketOpen >= parenClose || text[bracketOpen] != '[' {
			continue
		}
		bracketClose, err := scan.FindClosing(text, bracketOpen)
		if err != nil {
			return nil, err
		}
		args, err := scan.SplitTrim(text[bracketClose+1:parenClose], ",")
		if err != nil {
			return nil, err
		}
		if len(args) > 0 && args[0] == "" {
			args = args[1:]
		}

		key := ""
		descriptor := ""
		switch {
		case len(args) >= 2 && args[0] == name+".prototype" && isQuotedName(args[1]):
			key = unquoteName(args[1])
			if len(args) >= 3 {
				descriptor = args[2]
			}
		case len(args) == 1 && (args[0] == name || (helper != "" && args[0] == helper)):
			key = ClassKey
		default:
			continue
		}

		entries, err := scan.SplitTrim(text[bracketOpen+1:bracketClose], ",")
		if err != nil {
			return nil, err
		}
		var kept []Decorator
		var stripped []Decorator
		var keptSources []string
		for _, entry := range entries {
			if entry == "" {
				continue
			}
			dec, err := parseDecorator(entry)
			if err != nil {
				return nil, err
			}
			dec.Descriptor = descriptor
			if annotations[baseName(dec.Name)] {
				stripped = append(stripped, dec)
			} else {
				kept = append(kept, dec)
				keptSources = append(keptSources, dec.Source)
			}
		}
		if len(kept) > 0 {
			out.Decorators[key] = append(out.Decorators[key], kept...)
		}
		if len(stripped) > 0 {
			out.Annotations[key] = append(out.Annotations[key], stripped...)
		}

		if len(stripped) == 0 {
			continue
		}
		stmtStart := at
		if key == ClassKey {
			stmtStart = assignPrefixStart(text, at, name, helper)
		}
		stmtEnd := parenClose + 1
		if sp := scan.SkipSpace(text, stmtEnd); sp < len(text) && text[sp] == ';' {
			stmtEnd = sp + 1
		}
		if len(kept) == 0 {
			edits = append(edits, expandLineEdit(text, edit{start: stmtStart, end: stmtEnd}))
			continue
		}
		rebuilt := text[stmtStart:bracketOpen+1] + strings.Join(keptSources, ", ") + text[bracketClose:stmtEnd]
		edits = append(edits, edit{start: stmtStart, end: stmtEnd, replacement: rebuilt})
	}
}

// parseDecorator splits a decorator expression into its name and argument
// text at the first call parenthesis.
func parseDecorator(source string) (Decorator, error) {
	d := Decorator{Source: source, Name: source}
	parenAt, err := scan.Index(source, "(", 0)
	if err != nil {
		return d, err
	}
	if parenAt < 0 {
		return d, nil
	}
	parenClose, err := scan.FindClosing(source, parenAt)
	if err != nil {
		return d, err
	}
	d.Name = strings.TrimSpace(source[:parenAt])
	d.Args = source[parenAt+1 : parenClose]
	d.HasArgs = true
	return d, nil
}

// assignPrefixStart walks backward over "Name = " and "Alias = " assignment
// prefixes in front of a class-level decoration call.
func assignPrefixStart(text string, at int, name, helper string) int {
	start := at
	for {
		i := skipSpaceBack(text, start)
		if i == 0 || text[i-1] != '=' {
			return start
		}
		eq := i - 1
		if eq > 0 && strings.IndexByte("=!<>+-*/%&|^", text[eq-1]) >= 0 {
			return start
		}
		i = skipSpaceBack(text, eq)
		end := i
		for i > 0 && isIdentChar(text[i-1]) {
			i--
		}
		if i == end {
			return start
		}
		ident := text[i:end]
		if ident != name && ident != helper && !strings.HasPrefix(ident, name+"_") {
			return start
		}
		start = i
	}
}

// expandLineEdit grows a deletion to cover its whole line when the deleted
// text is the only content on that line.
func expandLineEdit(text string, e edit) edit {
	if e.replacement != "" {
		return e
	}
	start := e.start
	for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
		start--
	}
	if start != 0 && text[start-1] != '\n' {
		return e
	}
	end := e.end
	if end < len(text) && text[end] == '\r' {
		end++
	}
	if end < len(text) && text[end] == '\n' {
		e.start = start
		e.end = end + 1
	}
	return e
}

func applyEdits(text string, edits []edit) string {
	if len(edits) == 0 {
		return text
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var b strings.Builder
	cursor := 0
	for _, e := range edits {
		if e.start < cursor {
			continue
		}
		b.WriteString(text[cursor:e.start])
		b.WriteString(e.replacement)
		cursor = e.end
	}
	b.WriteString(text[cursor:])
	return b.String()
}

func isQuotedName(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

func unquoteName(s string) string {
	return s[1 : len(s)-1]
}

func baseName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func skipSpaceBack(text string, i int) int {
	for i > 0 {
		switch text[i-1] {
		case ' ', '\t', '\r', '\n':
			i--
		default:
			return i
		}
	}
	return i
}
