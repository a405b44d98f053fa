package datatype

import (
	"bytes"

	"github.com/wsl-format/wsl/lex"
	"github.com/wsl-format/wsl/wslerr"
)

type atomType struct{}

func newAtom(args []byte) (Datatype, error) {
	if len(bytes.TrimSpace(args)) != 0 {
		return nil, wslerr.New(wslerr.DatatypeArg, "construction of Atom domain does not accept any arguments")
	}
	return atomType{}, nil
}

func (atomType) SyntaxKind() SyntaxKind { return SyntaxAtom }

func (atomType) Decode(data []byte, pos int) (any, int, error) {
	tok, next, err := lex.Atom(data, pos)
	if err != nil {
		return nil, pos, err
	}
	return string(tok), next, nil
}

func (atomType) Encode(value any) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, wslerr.New(wslerr.Encode, "Atom value must be a string")
	}
	tok := []byte(s)
	if len(tok) == 0 {
		return nil, wslerr.New(wslerr.Encode, "Atom value must not be empty")
	}
	for _, b := range tok {
		if b < 0x21 || b > 0x7e || b == 0x5b || b == 0x5d {
			return nil, wslerr.New(wslerr.Encode, "Atom value contains a byte outside 0x21..0x7E or a bracket character")
		}
	}
	return tok, nil
}
