package goavsc

import (
	"math"

	json "github.com/goccy/go-json"
)

// schemaReservedProps are the keys interpreted by the grammar on a schema
// object; anything else is kept as an "other" property.
var schemaReservedProps = []string{
	"type",
	"name",
	"namespace",
	"fields",  // Record
	"items",   // Array
	"size",    // Fixed
	"symbols", // Enum
	"values",  // Map
	"doc",
	"declared_errors", // error_union
}

var fieldReservedProps = []string{
	"default",
	"name",
	"doc",
	"order",
	"type",
}

// builder walks decoded JSON and instantiates schema nodes. One builder (and
// its Names) serves exactly one parse.
type builder struct {
	names *Names
}

func newBuilder(defaultNamespace string) *builder {
	return &builder{names: NewNames(defaultNamespace)}
}

func (b *builder) build(v any, at pointer) (Schema, error) {
	switch t := v.(type) {
	case map[string]any:
		return b.buildObject(t, at)
	case []any:
		return b.buildUnion(t, false, newMeta(nil, nil), at)
	case string:
		return b.buildReference(t, at)
	default:
		return nil, parseErrorf(at.String(), CodeInvalidSchema, "could not make an Avro schema from %s", describeValue(v))
	}
}

// buildReference handles a bare type name: a primitive or a previously
// defined named type.
func (b *builder) buildReference(name string, at pointer) (Schema, error) {
	if IsPrimitiveType(name) {
		return &Primitive{meta: newMeta(nil, nil), PrimitiveType: name}, nil
	}
	if s := b.names.Get(name, ""); s != nil {
		return s, nil
	}
	return nil, parseErrorf(at.String(), CodeUnknownType, "undefined type name %q", name)
}

func (b *builder) buildObject(obj map[string]any, at pointer) (Schema, error) {
	raw, ok := obj["type"]
	if !ok || raw == nil {
		return nil, parseErrorf(at.String(), CodeInvalidSchema, "could not make an Avro schema from %s", describeValue(obj))
	}
	typ, ok := raw.(string)
	if !ok {
		return nil, parseErrorf(at.Key("type").String(), CodeUnknownType, "undefined type: %s", describeValue(raw))
	}
	m := splitProps(obj, schemaReservedProps)

	switch {
	case IsPrimitiveType(typ):
		return &Primitive{meta: m, PrimitiveType: typ}, nil
	case typ == TypeFixed:
		return b.buildFixed(obj, m, at)
	case typ == TypeEnum:
		return b.buildEnum(obj, m, at)
	case typ == TypeRecord, typ == TypeError, typ == TypeRequest:
		return b.buildRecord(typ, obj, m, at)
	case typ == TypeArray:
		items, err := b.buildChild(obj, "items", at)
		if err != nil {
			return nil, err
		}
		return &Array{meta: m, Items: items}, nil
	case typ == TypeMap:
		values, err := b.buildChild(obj, "values", at)
		if err != nil {
			return nil, err
		}
		return &Map{meta: m, Values: values}, nil
	case typ == TypeErrorUnion:
		declared := []any{}
		if v, ok := obj["declared_errors"]; ok && v != nil {
			list, ok := v.([]any)
			if !ok {
				return nil, parseErrorf(at.Key("declared_errors").String(), CodeInvalidValue, "declared_errors must be an array, got %s", describeValue(v))
			}
			declared = list
		}
		members := make([]any, 0, len(declared)+1)
		members = append(members, declared...)
		members = append(members, TypeString)
		return b.buildUnion(members, true, m, at.Key("declared_errors"))
	case typ == TypeUnion:
		return nil, parseErrorf(at.Key("type").String(), CodeUnknownType, "a union must be declared as a JSON array")
	}

	// {"type": "SomeName"} refers to an already defined named type.
	if s := b.names.Get(typ, ""); s != nil {
		return s, nil
	}
	return nil, parseErrorf(at.Key("type").String(), CodeUnknownType, "undefined type: %q", typ)
}

// buildChild builds the container sub-schema stored under key.
func (b *builder) buildChild(obj map[string]any, key string, at pointer) (Schema, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, parseErrorf(at.String(), CodeRequired, "%s schema requires %q", obj["type"], key)
	}
	s, err := b.build(raw, at.Key(key))
	if err != nil {
		return nil, wrapParseError(at.Key(key).String(), codeOf(err), err, "%s schema %s is not a valid Avro schema", key, describeValue(raw))
	}
	return s, nil
}

func (b *builder) buildFixed(obj map[string]any, m meta, at pointer) (Schema, error) {
	name, namespace, err := nameAttrs(obj, at)
	if err != nil {
		return nil, err
	}
	size, ok := asInt(obj["size"])
	if !ok || size < 0 {
		return nil, parseErrorf(at.Key("size").String(), CodeInvalidValue, "fixed %q requires a non-negative integer size, got %s", name, describeValue(obj["size"]))
	}
	f := &Fixed{meta: m, Size: size}
	if err := b.register(f, &f.named, name, namespace, at); err != nil {
		return nil, err
	}
	return f, nil
}

func (b *builder) buildEnum(obj map[string]any, m meta, at pointer) (Schema, error) {
	name, namespace, err := nameAttrs(obj, at)
	if err != nil {
		return nil, err
	}
	doc, err := optionalString(obj, "doc", at)
	if err != nil {
		return nil, err
	}
	list, ok := obj["symbols"].([]any)
	if !ok {
		return nil, parseErrorf(at.Key("symbols").String(), CodeRequired, "enum %q requires a symbols array", name)
	}
	symbols := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for i, raw := range list {
		sym, ok := raw.(string)
		if !ok {
			return nil, parseErrorf(at.Key("symbols").Index(i).String(), CodeInvalidValue, "enum symbol must be a string, got %s", describeValue(raw))
		}
		if _, dup := seen[sym]; dup {
			return nil, parseErrorf(at.Key("symbols").Index(i).String(), CodeInvalidValue, "duplicate enum symbol %q", sym)
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	e := &Enum{meta: m, Symbols: symbols, Doc: doc}
	if err := b.register(e, &e.named, name, namespace, at); err != nil {
		return nil, err
	}
	return e, nil
}

func (b *builder) buildRecord(typ string, obj map[string]any, m meta, at pointer) (Schema, error) {
	rec := &Record{meta: m, RecordType: typ}
	doc, err := optionalString(obj, "doc", at)
	if err != nil {
		return nil, err
	}
	rec.Doc = doc

	ns := b.names.DefaultNamespace
	if typ != TypeRequest {
		name, namespace, err := nameAttrs(obj, at)
		if err != nil {
			return nil, err
		}
		// Registered before the fields are built so they can refer to it.
		if err := b.register(rec, &rec.named, name, namespace, at); err != nil {
			return nil, err
		}
		ns = rec.namespace
	}

	list, ok := obj["fields"].([]any)
	if !ok {
		return nil, parseErrorf(at.Key("fields").String(), CodeRequired, "%s %q requires a fields array", typ, rec.fullname)
	}
	err = b.names.withNamespace(ns, func() error {
		fields, err := b.buildFields(list, at.Key("fields"))
		rec.Fields = fields
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (b *builder) buildFields(list []any, at pointer) ([]*Field, error) {
	fields := make([]*Field, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for i, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, parseErrorf(at.Index(i).String(), CodeInvalidSchema, "not a valid field: %s", describeValue(raw))
		}
		if name, ok := obj["name"].(string); ok {
			if _, dup := seen[name]; dup {
				return nil, parseErrorf(at.Index(i).Key("name").String(), CodeDuplicateField, "field name %s already in use", name)
			}
			seen[name] = struct{}{}
		}
		f, err := b.buildField(obj, at.Index(i))
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (b *builder) buildField(obj map[string]any, at pointer) (*Field, error) {
	name, err := requiredString(obj, "name", at)
	if err != nil {
		return nil, err
	}
	doc, err := optionalString(obj, "doc", at)
	if err != nil {
		return nil, err
	}
	order, err := optionalString(obj, "order", at)
	if err != nil {
		return nil, err
	}
	switch order {
	case "", OrderAscending, OrderDescending, OrderIgnore:
	default:
		return nil, parseErrorf(at.Key("order").String(), CodeInvalidValue, "field %q has invalid order %q", name, order)
	}

	rawType, ok := obj["type"]
	if !ok || rawType == nil {
		return nil, parseErrorf(at.String(), CodeRequired, "field %q has no type", name)
	}
	typ, err := b.build(rawType, at.Key("type"))
	if err != nil {
		return nil, wrapParseError(at.Key("type").String(), codeOf(err), err, "type property %s is not a valid Avro schema", describeValue(rawType))
	}

	f := &Field{
		meta:  splitProps(obj, fieldReservedProps),
		Name:  name,
		Type:  typ,
		Order: order,
		Doc:   doc,
	}
	// Presence of the key decides, not its value.
	if raw, ok := obj["default"]; ok {
		f.HasDefault = true
		f.RawDefault = raw
		f.Default = displayDefault(raw)
	}
	return f, nil
}

func (b *builder) buildUnion(list []any, errorUnion bool, m meta, at pointer) (Schema, error) {
	u := &Union{meta: m, ErrorUnion: errorUnion, Members: make([]Schema, 0, len(list))}
	kinds := make(map[string]struct{}, len(list))
	fullnames := make(map[string]struct{})
	for i, raw := range list {
		s, err := b.build(raw, at.Index(i))
		if err != nil {
			return nil, wrapParseError(at.Index(i).String(), codeOf(err), err, "union item must be a valid Avro schema")
		}
		if _, nested := s.(*Union); nested {
			return nil, parseErrorf(at.Index(i).String(), CodeNestedUnion, "unions cannot contain other unions")
		}
		// Named types may repeat their kind but not their full name.
		if n, isNamed := s.(Named); isNamed {
			if _, dup := fullnames[n.Fullname()]; dup {
				return nil, parseErrorf(at.Index(i).String(), CodeDuplicateKind, "%s already in union", n.Fullname())
			}
			fullnames[n.Fullname()] = struct{}{}
		} else {
			if _, dup := kinds[s.Type()]; dup {
				return nil, parseErrorf(at.Index(i).String(), CodeDuplicateKind, "%s type already in union", s.Type())
			}
			kinds[s.Type()] = struct{}{}
		}
		u.Members = append(u.Members, s)
	}
	return u, nil
}

func (b *builder) register(s Named, n *named, name, namespace string, at pointer) error {
	full, err := b.names.Add(name, namespace, s)
	if err != nil {
		code := CodeDuplicateName
		if dn, ok := err.(*DuplicateNameError); ok && dn.Reserved {
			code = CodeReservedName
		}
		return wrapParseError(at.Key("name").String(), code, err, "cannot register %s %q", s.Type(), name)
	}
	n.fullname = full
	n.name = simpleName(full)
	n.namespace = namespaceOf(full)
	return nil
}

func nameAttrs(obj map[string]any, at pointer) (name, namespace string, err error) {
	name, err = requiredString(obj, "name", at)
	if err != nil {
		return "", "", err
	}
	namespace, err = optionalString(obj, "namespace", at)
	return name, namespace, err
}

func requiredString(obj map[string]any, key string, at pointer) (string, error) {
	s, ok := obj[key].(string)
	if !ok || s == "" {
		return "", parseErrorf(at.Key(key).String(), CodeRequired, "%q must be a non-empty string, got %s", key, describeValue(obj[key]))
	}
	return s, nil
}

func optionalString(obj map[string]any, key string, at pointer) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", parseErrorf(at.Key(key).String(), CodeInvalidValue, "%q must be a string, got %s", key, describeValue(raw))
	}
	return s, nil
}

// splitProps separates reserved keys from passthrough keys.
func splitProps(obj map[string]any, reserved []string) meta {
	declared := make(map[string]any)
	other := make(map[string]any)
	for k, v := range obj {
		if contains(reserved, k) {
			declared[k] = v
		} else {
			other[k] = v
		}
	}
	return meta{declared: declared, other: other}
}

func newMeta(declared, other map[string]any) meta {
	if declared == nil {
		declared = map[string]any{}
	}
	if other == nil {
		other = map[string]any{}
	}
	return meta{declared: declared, other: other}
}

func displayDefault(v any) any {
	switch v.(type) {
	case nil:
		return DefaultNull
	case []any:
		return DefaultEmptyArray
	case map[string]any:
		return DefaultEmptyMap
	default:
		return v
	}
}

// asInt accepts the integer shapes produced by the JSON and YAML decoders.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case interface{ Int64() (int64, error) }: // json.Number
		i, err := n.Int64()
		if err != nil || i > math.MaxInt32 {
			return 0, false
		}
		return int(i), true
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func codeOf(err error) string {
	if pe, ok := AsParseError(err); ok {
		return pe.Code
	}
	return CodeInvalidSchema
}

// describeValue renders v for error messages.
func describeValue(v any) string {
	const maxLen = 80
	b, err := json.Marshal(v)
	if err != nil {
		return "<unprintable>"
	}
	if len(b) > maxLen {
		return string(b[:maxLen]) + "..."
	}
	return string(b)
}
