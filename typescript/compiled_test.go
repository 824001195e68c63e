package typescript

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/tsmeta/typescript/scan"
)

const squareDecl = `declare class Square extends Shape {
    size: number;
    label: string;
    constructor();
    area(): number;
    describe(prefix: string): string;
}`

const es5Square = `var __extends = (this && this.__extends) || function (d, b) {
    for (var p in b) if (b.hasOwnProperty(p)) d[p] = b[p];
};
var __decorate = (this && this.__decorate) || function (decorators, target, key, desc) {
    return target;
};
var Square = (function (_super) {
    __extends(Square, _super);
    function Square() {
        var _this = _super.call(this) || this;
        _this.size = 5;
        _this.label = "box";
        return _this;
    }
    Square.prototype.area = function () {
        return this.size * this.size;
    };
    Square.prototype.describe = function (prefix) {
        return prefix + ": " + this.area();
    };
    __decorate([
        Notify(),
        Compute(calcArea)
    ], Square.prototype, "size", void 0);
    Square = __decorate([
        CustomElement()
    ], Square);
    return Square;
}(Shape));`

const es6Square = `let Square = class Square extends Shape {
    constructor() {
        super();
        this.size = 5;
        this.label = "box";
    }
    area() {
        return this.size * this.size;
    }
    describe(prefix) {
        return prefix + ": " + this.area();
    }
};
__decorate([
    Notify(),
    Compute(calcArea)
], Square.prototype, "size", void 0);
Square = __decorate([
    CustomElement()
], Square);`

func parseSquareDecl(t *testing.T) *ClassModel {
	t.Helper()
	decl, err := ParseDeclaration([]byte(squareDecl))
	if err != nil {
		t.Fatalf("ParseDeclaration() error = %v", err)
	}
	return decl
}

func TestParseCompiledPrototype(t *testing.T) {
	decl := parseSquareDecl(t)
	compiled, err := ParseCompiled([]byte(es5Square), decl, WithAnnotations("Compute"))
	if err != nil {
		t.Fatalf("ParseCompiled() error = %v", err)
	}
	if compiled.IsNativeClass {
		t.Error("IsNativeClass = true, want false")
	}
	if compiled.HelperName != "" {
		t.Errorf("HelperName = %q, want empty", compiled.HelperName)
	}
	if got := compiled.Defaults["size"]; got != "5" {
		t.Errorf("Defaults[size] = %q, want %q", got, "5")
	}
	if got := compiled.Defaults["label"]; got != `"box"` {
		t.Errorf("Defaults[label] = %q, want %q", got, `"box"`)
	}
	if body := compiled.MethodBodies["area"]; !strings.Contains(body, "return this.size * this.size;") {
		t.Errorf("MethodBodies[area] = %q, want body with area computation", body)
	}
	if body := compiled.MethodBodies["describe"]; !strings.Contains(body, "this.area()") {
		t.Errorf("MethodBodies[describe] = %q, want body calling area", body)
	}

	decorators := compiled.Decorators["size"]
	if len(decorators) != 1 || decorators[0].Name != "Notify" {
		t.Fatalf("Decorators[size] = %+v, want one Notify", decorators)
	}
	if !decorators[0].HasArgs || decorators[0].Args != "" {
		t.Errorf("Notify = %+v, want empty call arguments", decorators[0])
	}
	if decorators[0].Descriptor != "void 0" {
		t.Errorf("Descriptor = %q, want %q", decorators[0].Descriptor, "void 0")
	}
	annotations := compiled.Annotations["size"]
	if len(annotations) != 1 || annotations[0].Name != "Compute" || annotations[0].Args != "calcArea" {
		t.Fatalf("Annotations[size] = %+v, want one Compute(calcArea)", annotations)
	}
	classDecorators := compiled.Decorators[ClassKey]
	if len(classDecorators) != 1 || classDecorators[0].Name != "CustomElement" {
		t.Fatalf("Decorators[class] = %+v, want one CustomElement", classDecorators)
	}

	if strings.Contains(compiled.Rewritten, "__extends(Square") {
		t.Error("Rewritten still contains the inheritance helper call")
	}
	if strings.Contains(compiled.Rewritten, "Compute(calcArea)") {
		t.Error("Rewritten still contains the stripped annotation")
	}
	if !strings.Contains(compiled.Rewritten, `__decorate([Notify()], Square.prototype, "size", void 0);`) {
		t.Errorf("Rewritten = %q, want rebuilt decoration with Notify only", compiled.Rewritten)
	}
	if !strings.Contains(compiled.Rewritten, "CustomElement()") {
		t.Error("Rewritten lost the retained class decorator")
	}
}

func TestParseCompiledNative(t *testing.T) {
	decl := parseSquareDecl(t)
	compiled, err := ParseCompiled([]byte(es6Square), decl, WithAnnotations("Compute"))
	if err != nil {
		t.Fatalf("ParseCompiled() error = %v", err)
	}
	if !compiled.IsNativeClass {
		t.Error("IsNativeClass = false, want true")
	}
	if compiled.HelperName != "Square" {
		t.Errorf("HelperName = %q, want %q", compiled.HelperName, "Square")
	}
	if got := compiled.Defaults["size"]; got != "5" {
		t.Errorf("Defaults[size] = %q, want %q", got, "5")
	}
	if got := compiled.Defaults["label"]; got != `"box"` {
		t.Errorf("Defaults[label] = %q, want %q", got, `"box"`)
	}
	if body := compiled.MethodBodies["area"]; !strings.Contains(body, "return this.size * this.size;") {
		t.Errorf("MethodBodies[area] = %q, want body with area computation", body)
	}
	if len(compiled.Decorators["size"]) != 1 || compiled.Decorators["size"][0].Name != "Notify" {
		t.Fatalf("Decorators[size] = %+v, want one Notify", compiled.Decorators["size"])
	}
	if len(compiled.Annotations["size"]) != 1 || compiled.Annotations["size"][0].Name != "Compute" {
		t.Fatalf("Annotations[size] = %+v, want one Compute", compiled.Annotations["size"])
	}
	if strings.Contains(compiled.Rewritten, "Compute(calcArea)") {
		t.Error("Rewritten still contains the stripped annotation")
	}
	if !strings.Contains(compiled.Rewritten, `__decorate([Notify()], Square.prototype, "size", void 0);`) {
		t.Errorf("Rewritten = %q, want rebuilt decoration with Notify only", compiled.Rewritten)
	}
}

func TestParseCompiledNativeWithoutConstructor(t *testing.T) {
	src := `class Flag {
    isSet() {
        return true;
    }
}
__decorate([
    Persist()
], Flag.prototype, "value", void 0);`
	decl := &ClassModel{
		Name:       "Flag",
		Properties: []FieldModel{{Name: "value"}},
		Methods:    []FieldModel{{Name: "isSet", Params: []ParamModel{}}},
	}
	compiled, err := ParseCompiled([]byte(src), decl)
	if err != nil {
		t.Fatalf("ParseCompiled() error = %v", err)
	}
	if len(compiled.Defaults) != 0 {
		t.Errorf("Defaults = %+v, want empty", compiled.Defaults)
	}
	if len(compiled.Decorators["value"]) != 1 || compiled.Decorators["value"][0].Name != "Persist" {
		t.Errorf("Decorators[value] = %+v, want one Persist", compiled.Decorators["value"])
	}
	if !strings.Contains(compiled.MethodBodies["isSet"], "return true;") {
		t.Errorf("MethodBodies[isSet] = %q, want body", compiled.MethodBodies["isSet"])
	}
}

func TestParseCompiledDefaultsBareReceiver(t *testing.T) {
	src := `var Panel = (function () {
    function Panel() {
        var notthis = setup();
        notthis.size = 9;
        this.label = "side";
    }
    return Panel;
}());`
	decl := &ClassModel{
		Name:       "Panel",
		Properties: []FieldModel{{Name: "size"}, {Name: "label"}},
	}
	compiled, err := ParseCompiled([]byte(src), decl)
	if err != nil {
		t.Fatalf("ParseCompiled() error = %v", err)
	}
	if got, ok := compiled.Defaults["size"]; ok {
		t.Errorf("Defaults[size] = %q, want no entry", got)
	}
	if got := compiled.Defaults["label"]; got != `"side"` {
		t.Errorf("Defaults[label] = %q, want %q", got, `"side"`)
	}
}

func TestParseCompiledNoClass(t *testing.T) {
	decl := &ClassModel{Name: "Missing"}
	_, err := ParseCompiled([]byte("var x = 1;"), decl)
	if !errors.Is(err, ErrNoClass) {
		t.Errorf("ParseCompiled() error = %v, want ErrNoClass", err)
	}
}

func TestParseCompiledDropsAnnotationOnlySite(t *testing.T) {
	decl := parseSquareDecl(t)
	compiled, err := ParseCompiled([]byte(es6Square), decl, WithAnnotations("Notify", "Compute"))
	if err != nil {
		t.Fatalf("ParseCompiled() error = %v", err)
	}
	if len(compiled.Decorators["size"]) != 0 {
		t.Errorf("Decorators[size] = %+v, want none", compiled.Decorators["size"])
	}
	if len(compiled.Annotations["size"]) != 2 {
		t.Errorf("Annotations[size] = %+v, want two", compiled.Annotations["size"])
	}
	if strings.Contains(compiled.Rewritten, `"size"`) {
		t.Errorf("Rewritten = %q, want field decoration dropped entirely", compiled.Rewritten)
	}
	if !strings.Contains(compiled.Rewritten, "CustomElement()") {
		t.Error("Rewritten lost the untouched class decoration")
	}
}

func TestParseCompiledQualifiedAnnotationName(t *testing.T) {
	src := `class Gauge {
    constructor() {
        this.level = 1;
    }
}
__decorate([
    metadata.Compute(calc),
    Notify()
], Gauge.prototype, "level", void 0);`
	decl := &ClassModel{
		Name:       "Gauge",
		Properties: []FieldModel{{Name: "level"}},
	}
	compiled, err := ParseCompiled([]byte(src), decl, WithAnnotations("Compute"))
	if err != nil {
		t.Fatalf("ParseCompiled() error = %v", err)
	}
	annotations := compiled.Annotations["level"]
	if len(annotations) != 1 || annotations[0].Name != "metadata.Compute" {
		t.Fatalf("Annotations[level] = %+v, want one metadata.Compute", annotations)
	}
	if len(compiled.Decorators["level"]) != 1 || compiled.Decorators["level"][0].Name != "Notify" {
		t.Fatalf("Decorators[level] = %+v, want one Notify", compiled.Decorators["level"])
	}
	if !strings.Contains(compiled.Rewritten, `__decorate([Notify()], Gauge.prototype, "level", void 0);`) {
		t.Errorf("Rewritten = %q, want rebuilt decoration with Notify only", compiled.Rewritten)
	}
}

func TestParseCompiledRewriteIdempotent(t *testing.T) {
	decl := parseSquareDecl(t)
	for _, src := range []string{es5Square, es6Square} {
		first, err := ParseCompiled([]byte(src), decl, WithAnnotations("Compute"))
		if err != nil {
			t.Fatalf("ParseCompiled() error = %v", err)
		}
		second, err := ParseCompiled([]byte(first.Rewritten), decl, WithAnnotations("Compute"))
		if err != nil {
			t.Fatalf("ParseCompiled() rewritten error = %v", err)
		}
		if second.Rewritten != first.Rewritten {
			t.Errorf("rewrite is not stable:\nfirst:\n%s\nsecond:\n%s", first.Rewritten, second.Rewritten)
		}
	}
}

func TestParseCompiledMethodBodyBalanced(t *testing.T) {
	decl := parseSquareDecl(t)
	compiled, err := ParseCompiled([]byte(es5Square), decl)
	if err != nil {
		t.Fatalf("ParseCompiled() error = %v", err)
	}
	for name, body := range compiled.MethodBodies {
		end, err := scan.FindClosing(body, 0)
		if err != nil {
			t.Errorf("FindClosing(%s) error = %v", name, err)
			continue
		}
		if end != len(body)-1 {
			t.Errorf("FindClosing(%s) = %d, want %d", name, end, len(body)-1)
		}
	}
}
