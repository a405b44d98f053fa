// Package datatype implements the pluggable value-level datatypes a DOMAIN
// declaration can name: the SyntaxKind/Decode/Encode contract, a Registry of
// name -> Factory mappings, and the five built-ins (Atom, String, Integer,
// Enum, IPv4).
package datatype

// SyntaxKind dictates which line-level lexer the tuple codec applies before
// handing bytes to a Datatype's Decode.
type SyntaxKind int

const (
	// SyntaxAtom fields are decoded directly from the cursor; the
	// Datatype is responsible for consuming its own token.
	SyntaxAtom SyntaxKind = iota
	// SyntaxString fields are first unwrapped from "[...]" by the codec;
	// Decode receives the bracket-interior bytes with pos 0 and must
	// consume all of them.
	SyntaxString
)

// Datatype is a value-level object: a classification plus a decode/encode
// pair. Decode consumes a token starting at pos within data and returns the
// decoded value and the cursor just past the token. Encode renders a value
// back to wire bytes, excluding any surrounding brackets (that's the
// codec's job for SyntaxString kinds).
type Datatype interface {
	SyntaxKind() SyntaxKind
	Decode(data []byte, pos int) (value any, next int, err error)
	Encode(value any) ([]byte, error)
}

// Factory builds a Datatype from the remainder of a DOMAIN declaration line
// (the bytes after the datatype name, possibly empty).
type Factory func(args []byte) (Datatype, error)
