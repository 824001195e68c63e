package typescript

import "github.com/iancoleman/strcase"

// Component pairs a class declaration with its compiled counterpart.
// Compiled is nil when only the declaration listing was available.
type Component struct {
	Path     string
	Class    *ClassModel
	Compiled *CompiledSource
}

// Tag returns the kebab-case element tag derived from the class name.
func (c *Component) Tag() string {
	if c.Class == nil {
		return ""
	}
	return strcase.ToKebab(c.Class.Name)
}
