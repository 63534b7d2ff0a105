package shelf

import (
	"strconv"
	"strings"
)

// pointer builds JSON Pointer paths in a chain-safe way.
type pointer struct {
	parts []string
}

func (p pointer) Field(name string) pointer {
	if name == "" {
		return p
	}
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return pointer{parts: append(append([]string{}, p.parts...), esc)}
}

func (p pointer) Index(i int) pointer {
	return pointer{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p pointer) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
