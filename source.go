package goavsc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/goavsc/internal/jsonscan"
)

// DecodeJSON decodes an AVSC document into the generic shapes accepted by
// Parse. Numbers are kept as json.Number so defaults do not lose precision.
func DecodeJSON(data []byte, opt ParseOpt) (any, error) {
	iss, err := jsonscan.Scan(data, jsonscan.Options{
		RejectDuplicateKeys: opt.RejectDuplicateKeys,
		MaxDepth:            opt.MaxDepth,
	})
	if err != nil {
		return nil, &ParseError{Code: CodeDecode, Message: "invalid JSON", Cause: err}
	}
	if len(iss) > 0 {
		code := CodeDecode
		if iss[0].Code == "duplicate_key" {
			code = CodeDuplicateKey
		}
		return nil, &ParseError{Path: iss[0].Path, Code: code, Message: iss[0].Message}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ParseError{Code: CodeDecode, Message: "invalid JSON", Cause: err}
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Code: CodeDecode, Message: "unexpected data after the schema", Cause: err}
	}
	return v, nil
}

// DecodeYAML decodes a YAML-authored AVSC document into JSON-compatible shapes.
// Only the first YAML document is read.
func DecodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Code: CodeDecode, Message: "empty YAML document"}
		}
		return nil, &ParseError{Code: CodeDecode, Message: "invalid YAML", Cause: err}
	}
	return yamlNormalizeValue(v)
}

// yamlNormalizeValue converts YAML-decoded values (which may contain
// map[any]any) into JSON-like values recursively.
func yamlNormalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := yamlNormalizeValue(vv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, &ParseError{Code: CodeDecode, Message: fmt.Sprintf("non-string YAML key %v", k)}
			}
			nv, err := yamlNormalizeValue(vv)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			nv, err := yamlNormalizeValue(t[i])
			if err != nil {
				return nil, err
			}
			arr[i] = nv
		}
		return arr, nil
	default:
		return v, nil
	}
}
