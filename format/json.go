package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/tsmeta/typescript"
)

type JSONEncoder struct {
	w         io.Writer
	component *typescript.Component
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(component *typescript.Component) error {
	e.component = component
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildComponentData()
	return json.MarshalIndent(data, "", "  ")
}

type jsonComponent struct {
	Name       string        `json:"name"`
	Tag        string        `json:"tag"`
	Extends    string        `json:"extends,omitempty"`
	Path       string        `json:"path,omitempty"`
	Properties []jsonField   `json:"properties,omitempty"`
	Methods    []jsonField   `json:"methods,omitempty"`
	Compiled   *jsonCompiled `json:"compiled,omitempty"`
}

type jsonField struct {
	Name      string      `json:"name"`
	Type      string      `json:"type,omitempty"`
	Params    []jsonParam `json:"params"`
	Modifiers []string    `json:"modifiers,omitempty"`
	Static    bool        `json:"static,omitempty"`
	Private   bool        `json:"private,omitempty"`
	Protected bool        `json:"protected,omitempty"`
	Public    bool        `json:"public,omitempty"`
	Readonly  bool        `json:"readonly,omitempty"`
}

type jsonParam struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type jsonCompiled struct {
	HelperName    string                     `json:"helperName,omitempty"`
	IsNativeClass bool                       `json:"isNativeClass"`
	Defaults      map[string]string          `json:"defaults,omitempty"`
	MethodBodies  map[string]string          `json:"methodBodies,omitempty"`
	Decorators    map[string][]jsonDecorator `json:"decorators,omitempty"`
	Annotations   map[string][]jsonDecorator `json:"annotations,omitempty"`
}

type jsonDecorator struct {
	Name       string `json:"name"`
	Args       string `json:"args,omitempty"`
	HasArgs    bool   `json:"hasArgs,omitempty"`
	Descriptor string `json:"descriptor,omitempty"`
	Source     string `json:"source,omitempty"`
}

func (e *JSONEncoder) buildComponentData() jsonComponent {
	c := e.component
	data := jsonComponent{
		Name: c.Class.Name,
		Tag:  c.Tag(),
		Path: c.Path,
	}
	data.Extends = c.Class.Parent
	data.Properties = e.buildFields(c.Class.Properties)
	data.Methods = e.buildFields(c.Class.Methods)
	if c.Compiled != nil {
		data.Compiled = e.buildCompiled(c.Compiled)
	}
	return data
}

func (e *JSONEncoder) buildFields(fields []typescript.FieldModel) []jsonField {
	var result []jsonField
	for i := range fields {
		f := &fields[i]
		result = append(result, jsonField{
			Name:      f.Name,
			Type:      string(f.Type),
			Params:    e.buildParams(f.Params),
			Modifiers: f.Modifiers,
			Static:    f.IsStatic,
			Private:   f.IsPrivate,
			Protected: f.IsProtected,
			Public:    f.IsPublic,
			Readonly:  f.IsReadonly,
		})
	}
	return result
}

func (e *JSONEncoder) buildParams(params []typescript.ParamModel) []jsonParam {
	if params == nil {
		return nil
	}
	result := []jsonParam{}
	for _, p := range params {
		result = append(result, jsonParam{Name: p.Name, Type: string(p.Type)})
	}
	return result
}

func (e *JSONEncoder) buildCompiled(c *typescript.CompiledSource) *jsonCompiled {
	return &jsonCompiled{
		HelperName:    c.HelperName,
		IsNativeClass: c.IsNativeClass,
		Defaults:      c.Defaults,
		MethodBodies:  c.MethodBodies,
		Decorators:    e.buildDecorators(c.Decorators),
		Annotations:   e.buildDecorators(c.Annotations),
	}
}

func (e *JSONEncoder) buildDecorators(decorators map[string][]typescript.Decorator) map[string][]jsonDecorator {
	if len(decorators) == 0 {
		return nil
	}
	result := make(map[string][]jsonDecorator, len(decorators))
	for key, list := range decorators {
		converted := make([]jsonDecorator, 0, len(list))
		for _, d := range list {
			converted = append(converted, jsonDecorator{
				Name:       d.Name,
				Args:       d.Args,
				HasArgs:    d.HasArgs,
				Descriptor: d.Descriptor,
				Source:     d.Source,
			})
		}
		result[key] = converted
	}
	return result
}
