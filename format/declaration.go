package format

import (
	"bytes"
	"io"

	"github.com/dhamidi/tsmeta/typescript"
)

// DeclarationEncoder renders a class model back into a typed declaration
// listing. Types are printed as their resolved runtime categories, so the
// output is a normalized form of the original listing, not a copy.
type DeclarationEncoder struct {
	w         io.Writer
	component *typescript.Component
}

func NewDeclarationEncoder(w io.Writer) *DeclarationEncoder {
	return &DeclarationEncoder{w: w}
}

func (e *DeclarationEncoder) Encode(component *typescript.Component) error {
	e.component = component
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *DeclarationEncoder) MarshalText() ([]byte, error) {
	var b bytes.Buffer
	c := e.component.Class
	b.WriteString("declare class ")
	b.WriteString(c.Name)
	if c.Parent != "" {
		b.WriteString(" extends ")
		b.WriteString(c.Parent)
	}
	b.WriteString(" {\n")
	for i := range c.Properties {
		e.writeProperty(&b, &c.Properties[i])
	}
	for i := range c.Methods {
		e.writeMethod(&b, &c.Methods[i])
	}
	b.WriteString("}\n")
	return b.Bytes(), nil
}

func (e *DeclarationEncoder) writeProperty(b *bytes.Buffer, f *typescript.FieldModel) {
	b.WriteString("    ")
	writeModifiers(b, f.Modifiers)
	b.WriteString(f.Name)
	if f.Type != "" {
		b.WriteString(": ")
		b.WriteString(string(f.Type))
	}
	b.WriteString(";\n")
}

func (e *DeclarationEncoder) writeMethod(b *bytes.Buffer, f *typescript.FieldModel) {
	b.WriteString("    ")
	writeModifiers(b, f.Modifiers)
	b.WriteString(f.Name)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type != "" {
			b.WriteString(": ")
			b.WriteString(string(p.Type))
		}
	}
	b.WriteByte(')')
	if f.Type != "" {
		b.WriteString(": ")
		b.WriteString(string(f.Type))
	}
	b.WriteString(";\n")
}

func writeModifiers(b *bytes.Buffer, modifiers []string) {
	for _, m := range modifiers {
		b.WriteString(m)
		b.WriteByte(' ')
	}
}
