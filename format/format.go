package format

import (
	"encoding"

	"github.com/dhamidi/tsmeta/typescript"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(component *typescript.Component) error
}
