package goavsc

import (
	"strconv"
	"strings"
)

// pointer builds JSON Pointer paths (RFC 6901) into the source document.
type pointer string

func (p pointer) Key(name string) pointer {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return p + "/" + pointer(esc)
}

func (p pointer) Index(i int) pointer {
	return p + "/" + pointer(strconv.Itoa(i))
}

func (p pointer) String() string {
	if p == "" {
		return "/"
	}
	return string(p)
}
