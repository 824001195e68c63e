package typescript

// Type is the runtime category a declared type expression reduces to.
type Type string

const (
	TypeBoolean Type = "Boolean"
	TypeNumber  Type = "Number"
	TypeString  Type = "String"
	TypeDate    Type = "Date"
	TypeObject  Type = "Object"
	TypeArray   Type = "Array"
)

// ParamModel describes a single method parameter.
type ParamModel struct {
	Name string
	Type Type
}

// FieldModel describes a class member. Params is nil for properties and
// non-nil (possibly empty) for methods.
type FieldModel struct {
	Name        string
	Type        Type
	Params      []ParamModel
	Modifiers   []string
	IsStatic    bool
	IsPrivate   bool
	IsProtected bool
	IsPublic    bool
	IsReadonly  bool
}

// IsMethod reports whether the member was declared with a parameter list.
func (f *FieldModel) IsMethod() bool {
	return f.Params != nil
}

// ClassModel is the metadata recovered from a class declaration listing.
type ClassModel struct {
	Name       string
	Parent     string
	Properties []FieldModel
	Methods    []FieldModel
}

// Property returns the named property, or nil.
func (c *ClassModel) Property(name string) *FieldModel {
	for i := range c.Properties {
		if c.Properties[i].Name == name {
			return &c.Properties[i]
		}
	}
	return nil
}

// Method returns the named method, or nil.
func (c *ClassModel) Method(name string) *FieldModel {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}

// Decorator is a single decorator application as found in compiled output.
type Decorator struct {
	Source     string
	Name       string
	Args       string
	HasArgs    bool
	Descriptor string
}

// ClassKey is the map key under which class-level decorators are recorded.
const ClassKey = "class"

// CompiledSource is the metadata recovered from a compiled class, together
// with a rewritten copy of the input with design-time annotations removed.
type CompiledSource struct {
	HelperName    string
	IsNativeClass bool
	Defaults      map[string]string
	MethodBodies  map[string]string
	Decorators    map[string][]Decorator
	Annotations   map[string][]Decorator
	Rewritten     string
}
