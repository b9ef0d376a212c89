package goavsc

import "io"

// ParseOpt bundles parsing options. When several are passed, the last wins.
type ParseOpt struct {
	// DefaultNamespace qualifies top-level bare names.
	DefaultNamespace string
	// RejectDuplicateKeys fails ParseBytes/ParseReader when a JSON object
	// repeats a key (the decoder would otherwise keep the last one silently).
	RejectDuplicateKeys bool
	// MaxDepth bounds JSON nesting for ParseBytes/ParseReader (0 = unlimited).
	MaxDepth int
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

// Parse builds a schema tree from an already decoded JSON value and assigns
// a fullpath to every reachable node. A failed parse returns no tree.
//
// Accepted shapes are the ones produced by JSON decoders: map[string]any,
// []any, string, json.Number, float64, bool and nil.
func Parse(v any, opts ...ParseOpt) (Schema, error) {
	opt := lastOpt(opts)
	// A fresh registry per call: no naming state survives between parses.
	b := newBuilder(opt.DefaultNamespace)
	root, err := b.build(v, "")
	if err != nil {
		return nil, err
	}
	AssignFullpaths(root)
	return root, nil
}

// ParseBytes decodes a JSON AVSC document and parses it.
func ParseBytes(data []byte, opts ...ParseOpt) (Schema, error) {
	v, err := DecodeJSON(data, lastOpt(opts))
	if err != nil {
		return nil, err
	}
	return Parse(v, opts...)
}

// ParseReader reads a JSON AVSC document from r and parses it.
func ParseReader(r io.Reader, opts ...ParseOpt) (Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(data, opts...)
}

// ParseYAML parses an AVSC document written in YAML.
func ParseYAML(data []byte, opts ...ParseOpt) (Schema, error) {
	v, err := DecodeYAML(data)
	if err != nil {
		return nil, err
	}
	return Parse(v, opts...)
}

// MustParseBytes is like ParseBytes but panics on error. Intended for
// package-level schema variables and tests.
func MustParseBytes(data []byte, opts ...ParseOpt) Schema {
	s, err := ParseBytes(data, opts...)
	if err != nil {
		panic(err)
	}
	return s
}
