package goavsc

// NodeKind identifies a schema tree node type.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindFixed
	KindEnum
	KindRecord
	KindArray
	KindMap
	KindUnion
	KindField
)

func (k NodeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindFixed:
		return "fixed"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindUnion:
		return "union"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

// Node is anything reachable in a parsed tree: every Schema plus record Fields.
type Node interface {
	Kind() NodeKind
	// FullPath returns the dotted path assigned by AssignFullpaths, or "" when
	// no path has been assigned yet (see HasFullPath).
	FullPath() string
	HasFullPath() bool

	setFullPath(p string)
}

// Schema is a node describing an Avro type.
type Schema interface {
	Node
	// Type returns the Avro type keyword ("record", "string", "union", ...).
	Type() string
	// DeclaredProperties holds the reserved keys present in the source object.
	DeclaredProperties() map[string]any
	// OtherProperties holds every non-reserved key verbatim.
	OtherProperties() map[string]any
}

// Named is implemented by Fixed, Enum and Record.
type Named interface {
	Schema
	// Name returns the simple name (the portion after the last dot).
	Name() string
	Namespace() string
	Fullname() string
}

// Primitive type names.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeString  = "string"
	TypeBytes   = "bytes"
	TypeInt     = "int"
	TypeLong    = "long"
	TypeFloat   = "float"
	TypeDouble  = "double"
)

// Complex type keywords.
const (
	TypeFixed      = "fixed"
	TypeEnum       = "enum"
	TypeRecord     = "record"
	TypeError      = "error"
	TypeRequest    = "request"
	TypeArray      = "array"
	TypeMap        = "map"
	TypeUnion      = "union"
	TypeErrorUnion = "error_union"
)

var primitiveTypes = []string{TypeNull, TypeBoolean, TypeString, TypeBytes, TypeInt, TypeLong, TypeFloat, TypeDouble}

// reservedTypeNames may not be used as the full name of a named type.
var reservedTypeNames = append([]string{
	TypeArray, TypeMap, TypeUnion, TypeRequest, TypeErrorUnion,
	TypeFixed, TypeEnum, TypeRecord, TypeError,
}, primitiveTypes...)

// IsPrimitiveType reports whether t is one of the eight primitive type names.
func IsPrimitiveType(t string) bool { return contains(primitiveTypes, t) }

func isReservedTypeName(t string) bool { return contains(reservedTypeNames, t) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// meta carries the state shared by every node kind.
type meta struct {
	fullpath    string
	hasFullpath bool
	declared    map[string]any
	other       map[string]any
}

func (m *meta) FullPath() string                   { return m.fullpath }
func (m *meta) HasFullPath() bool                  { return m.hasFullpath }
func (m *meta) DeclaredProperties() map[string]any { return m.declared }
func (m *meta) OtherProperties() map[string]any    { return m.other }

func (m *meta) setFullPath(p string) {
	m.fullpath = p
	m.hasFullpath = true
}

// named carries name information for Fixed, Enum and Record.
type named struct {
	name      string
	namespace string
	fullname  string
}

func (n *named) Name() string      { return n.name }
func (n *named) Namespace() string { return n.namespace }
func (n *named) Fullname() string  { return n.fullname }

// Primitive is one of null, boolean, string, bytes, int, long, float, double.
type Primitive struct {
	meta
	PrimitiveType string
}

func (*Primitive) Kind() NodeKind { return KindPrimitive }
func (p *Primitive) Type() string { return p.PrimitiveType }
func (p *Primitive) IsNull() bool { return p.PrimitiveType == TypeNull }

// Fixed is a named fixed-size byte sequence.
type Fixed struct {
	meta
	named
	Size int
}

func (*Fixed) Kind() NodeKind { return KindFixed }
func (*Fixed) Type() string   { return TypeFixed }

// Enum is a named set of symbols.
type Enum struct {
	meta
	named
	Symbols []string
	Doc     string
}

func (*Enum) Kind() NodeKind { return KindEnum }
func (*Enum) Type() string   { return TypeEnum }

// Record is a named (or, for RPC requests, anonymous) ordered list of fields.
type Record struct {
	meta
	named
	// RecordType is one of "record", "error" or "request".
	RecordType string
	Fields     []*Field
	Doc        string
}

func (*Record) Kind() NodeKind { return KindRecord }
func (r *Record) Type() string { return r.RecordType }

// Field returns the field with the given name, or nil.
func (r *Record) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Array is a sequence of Items.
type Array struct {
	meta
	Items Schema
}

func (*Array) Kind() NodeKind { return KindArray }
func (*Array) Type() string   { return TypeArray }

// Map maps string keys to Values.
type Map struct {
	meta
	Values Schema
}

func (*Map) Kind() NodeKind { return KindMap }
func (*Map) Type() string   { return TypeMap }

// Union is an ordered list of alternatives. ErrorUnion marks the error_union
// form, whose last member is always the string primitive.
type Union struct {
	meta
	Members    []Schema
	ErrorUnion bool
}

func (*Union) Kind() NodeKind { return KindUnion }
func (*Union) Type() string   { return TypeUnion }

// Field is a record field. It is a Node but not a Schema.
type Field struct {
	meta
	Name string
	Type Schema
	// HasDefault reports whether the source object has a "default" key at all.
	HasDefault bool
	// Default is the display value of the default: null, arrays and objects are
	// replaced by the DefaultNull, DefaultEmptyArray and DefaultEmptyMap
	// placeholders. RawDefault keeps the decoded value.
	Default    any
	RawDefault any
	Order      string
	Doc        string
}

func (*Field) Kind() NodeKind { return KindField }

// Display placeholders used for Field.Default.
const (
	DefaultNull       = "null"
	DefaultEmptyArray = "[ ] - empty array"
	DefaultEmptyMap   = "{ } - empty map"
)

// Field sort orders.
const (
	OrderAscending  = "ascending"
	OrderDescending = "descending"
	OrderIgnore     = "ignore"
)

var (
	_ Named  = (*Fixed)(nil)
	_ Named  = (*Enum)(nil)
	_ Named  = (*Record)(nil)
	_ Schema = (*Primitive)(nil)
	_ Schema = (*Array)(nil)
	_ Schema = (*Map)(nil)
	_ Schema = (*Union)(nil)
	_ Node   = (*Field)(nil)
)
