package datatype

import (
	"bytes"

	"github.com/wsl-format/wsl/lex"
	"github.com/wsl-format/wsl/wslerr"
)

// EnumValue is the decoded value shape for an Enum domain: the zero-based
// index of the matched variant and the token that matched it.
type EnumValue struct {
	Index int
	Token string
}

type enumType struct {
	variants []string
}

func newEnum(args []byte) (Datatype, error) {
	fields := bytes.Fields(args)
	variants := make([]string, len(fields))
	for i, f := range fields {
		variants[i] = string(f)
	}
	return &enumType{variants: variants}, nil
}

func (*enumType) SyntaxKind() SyntaxKind { return SyntaxAtom }

// Decode matches the token against the declared variants in declaration
// order; duplicate variants resolve first-match-wins.
func (e *enumType) Decode(data []byte, pos int) (any, int, error) {
	tok, next, err := lex.Atom(data, pos)
	if err != nil {
		return nil, pos, err
	}
	s := string(tok)
	for i, v := range e.variants {
		if v == s {
			return EnumValue{Index: i, Token: v}, next, nil
		}
	}
	return nil, pos, wslerr.At(wslerr.TupleSyntax, data, pos, "invalid enum token \""+s+"\"")
}

func (*enumType) Encode(value any) ([]byte, error) {
	v, ok := value.(EnumValue)
	if !ok {
		return nil, wslerr.New(wslerr.Encode, "Enum value must be an EnumValue")
	}
	return []byte(v.Token), nil
}
