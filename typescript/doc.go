// Package typescript recovers class metadata from TypeScript build output.
//
// # Overview
//
// A build produces two artifacts per class: a typed declaration listing and
// compiled JavaScript. Neither is parsed fully. Both extractors walk the text
// with the delimiter-aware primitives from the scan subpackage, which skip
// string literals and bracket regions, so structure is recognized without a
// grammar.
//
//	┌──────────────┐                      ┌──────────────────┐
//	│ declaration  │──ParseDeclaration──▶│    ClassModel     │
//	│ listing      │                      │ (names, types)   │
//	└──────────────┘                      └────────┬─────────┘
//	                                               │
//	┌──────────────┐                               ▼
//	│ compiled     │──ParseCompiled─────▶┌──────────────────┐
//	│ JavaScript   │                      │  CompiledSource  │
//	└──────────────┘                      │ (defaults, bodies,│
//	                                      │  decorators,      │
//	                                      │  rewritten text)  │
//	                                      └──────────────────┘
//
// # Declaration Listings
//
// ParseDeclaration reads the first class of a listing: its name, the
// verbatim extends clause, and every member. Members split into properties
// and methods depending on whether a parameter list is present. Declared
// type expressions reduce to coarse runtime categories (Boolean, Number,
// String, Date, Object, Array) through ResolveType; unions collapse to the
// common category or Object.
//
// # Compiled Output
//
// ParseCompiled recognizes two emit conventions. The ES5 prototype
// convention wraps the class in an immediately invoked function:
//
//	var Square = (function (_super) {
//	    __extends(Square, _super);
//	    function Square() { ... }
//	    Square.prototype.area = function () { ... };
//	    return Square;
//	}(Shape));
//
// Native class syntax is matched second:
//
//	let Square = class Square extends Shape { ... };
//
// From either form the extractor records constructor property defaults,
// verbatim method bodies, and every decoration-helper call. Decorators whose
// names are registered through WithAnnotations count as design-time
// annotations: they are reported separately and removed from the rewritten
// source, while the remaining decorators are re-emitted in their original
// order.
//
// # Errors
//
// A bracket that never closes surfaces as a *scan.DelimiterError annotated
// with the line of the opening bracket. Input without a recognizable class
// yields ErrNoClass. An unresolvable type expression is not an error: the
// member is recorded without a type.
package typescript
