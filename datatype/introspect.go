package datatype

// BuiltinName reports the registered name of dt if it is one of the five
// built-in datatypes, for callers (such as a SQL export adapter) that need
// to branch on datatype identity without widening the Datatype interface
// itself. Extension datatypes report ok=false.
func BuiltinName(dt Datatype) (name string, ok bool) {
	switch dt.(type) {
	case atomType:
		return "Atom", true
	case stringType:
		return "String", true
	case integerType:
		return "Integer", true
	case *enumType:
		return "Enum", true
	case ipv4Type:
		return "IPv4", true
	default:
		return "", false
	}
}

// EnumVariants returns the declared variant list of dt in declaration
// order, if dt is an Enum datatype.
func EnumVariants(dt Datatype) (variants []string, ok bool) {
	e, ok := dt.(*enumType)
	if !ok {
		return nil, false
	}
	out := make([]string, len(e.variants))
	copy(out, e.variants)
	return out, true
}
