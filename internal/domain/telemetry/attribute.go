package telemetry

// AttributeType discriminates the typed value columns of an attribute row
type AttributeType string

const (
	AttributeTypeString AttributeType = "string"
	AttributeTypeInt    AttributeType = "int"
	AttributeTypeDouble AttributeType = "double"
	AttributeTypeBool   AttributeType = "bool"

	// AttributeTypeArray stores the array as a JSON-encoded string since
	// relational columns cannot hold nested values.
	AttributeTypeArray AttributeType = "array"
)

// String returns the string representation of AttributeType
func (t AttributeType) String() string {
	return string(t)
}

// AttributeValue is a typed attribute value. Exactly one of the value
// fields is meaningful, selected by Type.
type AttributeValue struct {
	Type        AttributeType
	StringValue string
	IntValue    int64
	DoubleValue float64
	BoolValue   bool
	ArrayValue  string
}

// StringAttr creates a string-typed attribute value
func StringAttr(v string) AttributeValue {
	return AttributeValue{Type: AttributeTypeString, StringValue: v}
}

// IntAttr creates an int-typed attribute value
func IntAttr(v int64) AttributeValue {
	return AttributeValue{Type: AttributeTypeInt, IntValue: v}
}

// DoubleAttr creates a double-typed attribute value
func DoubleAttr(v float64) AttributeValue {
	return AttributeValue{Type: AttributeTypeDouble, DoubleValue: v}
}

// BoolAttr creates a bool-typed attribute value
func BoolAttr(v bool) AttributeValue {
	return AttributeValue{Type: AttributeTypeBool, BoolValue: v}
}

// ArrayAttr creates an array-typed attribute value from pre-encoded JSON
func ArrayAttr(jsonEncoded string) AttributeValue {
	return AttributeValue{Type: AttributeTypeArray, ArrayValue: jsonEncoded}
}

// Interface returns the value as an untyped interface, matching Type
func (v AttributeValue) Interface() any {
	switch v.Type {
	case AttributeTypeInt:
		return v.IntValue
	case AttributeTypeDouble:
		return v.DoubleValue
	case AttributeTypeBool:
		return v.BoolValue
	case AttributeTypeArray:
		return v.ArrayValue
	default:
		return v.StringValue
	}
}
