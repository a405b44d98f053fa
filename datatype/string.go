package datatype

import (
	"bytes"

	"github.com/wsl-format/wsl/wslerr"
)

type stringType struct{}

func newString(args []byte) (Datatype, error) {
	if len(bytes.TrimSpace(args)) != 0 {
		return nil, wslerr.New(wslerr.DatatypeArg, "construction of String domain does not accept any arguments")
	}
	return stringType{}, nil
}

func (stringType) SyntaxKind() SyntaxKind { return SyntaxString }

// Decode receives the bracket-interior bytes already stripped by the
// codec's string lexer and accepts them verbatim: disallowed-inside-bracket
// bytes are rejected only on Encode, never on Decode.
func (stringType) Decode(data []byte, pos int) (any, int, error) {
	return string(data[pos:]), len(data), nil
}

func (stringType) Encode(value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, wslerr.New(wslerr.Encode, "String value must be a string")
	}
	tok := []byte(s)
	for _, b := range tok {
		if b < 0x20 || b == 0x5b || b == 0x5d || b == 0x7f {
			return nil, wslerr.New(wslerr.Encode, "String value contains a byte not allowed inside '[...]'")
		}
	}
	return tok, nil
}
