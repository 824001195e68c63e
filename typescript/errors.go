package typescript

import "errors"

// ErrNoClass reports that the input contains no recognizable class.
var ErrNoClass = errors.New("no class found")
