package jsonscan

// Package jsonscan walks raw JSON tokens to catch problems that are invisible
// after decoding into maps: repeated object keys and excessive nesting.

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Issue is a minimal issue representation returned by Scan.
type Issue struct {
	Code    string
	Path    string // JSON Pointer of the offending key or container.
	Message string
}

// Options controls Scan. The zero value disables every check.
type Options struct {
	RejectDuplicateKeys bool
	MaxDepth            int // 0 means unlimited.
	MaxIssues           int // <= 0 means stop at the first issue.
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	pendingKey   string
	index        int
}

// Scan reports duplicate keys and depth violations in data. A syntax error is
// returned as err; checks that find nothing return (nil, nil).
func Scan(data []byte, opt Options) ([]Issue, error) {
	if !opt.RejectDuplicateKeys && opt.MaxDepth <= 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	limit := opt.MaxIssues
	if limit <= 0 {
		limit = 1
	}
	var issues []Issue
	var stack []frame

	// childPath returns the pointer of the value about to start at the top of stack.
	childPath := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := &stack[len(stack)-1]
		if top.kind == kindObject {
			return top.path + "/" + escape(top.pendingKey)
		}
		return top.path + "/" + strconv.Itoa(top.index)
	}
	// valueDone advances the parent after a complete value.
	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.kind == kindObject {
			top.expectingKey = true
			top.pendingKey = ""
		} else {
			top.index++
		}
	}

	for len(issues) < limit {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return issues, err
		}

		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				f := frame{kind: kindArray, path: childPath()}
				if v == '{' {
					f.kind = kindObject
					f.keys = make(map[string]struct{})
					f.expectingKey = true
				}
				stack = append(stack, f)
				if opt.MaxDepth > 0 && len(stack) > opt.MaxDepth {
					issues = append(issues, Issue{Code: "parse_error", Path: pointer(f.path), Message: "max depth exceeded"})
					return issues, nil
				}
			case '}', ']':
				if n := len(stack); n > 0 {
					stack = stack[:n-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 {
				top := &stack[n-1]
				if top.kind == kindObject && top.expectingKey {
					if _, ok := top.keys[v]; ok && opt.RejectDuplicateKeys {
						issues = append(issues, Issue{
							Code:    "duplicate_key",
							Path:    pointer(top.path + "/" + escape(v)),
							Message: "key '" + v + "' duplicated",
						})
					}
					top.keys[v] = struct{}{}
					top.expectingKey = false
					top.pendingKey = v
					continue
				}
			}
			valueDone()
		default:
			valueDone()
		}
	}
	return issues, nil
}

func escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
