package datatype

import (
	"bytes"
	"strconv"

	"github.com/wsl-format/wsl/lex"
	"github.com/wsl-format/wsl/wslerr"
)

type integerType struct{}

func newInteger(args []byte) (Datatype, error) {
	if len(bytes.TrimSpace(args)) != 0 {
		return nil, wslerr.New(wslerr.DatatypeArg, "construction of Integer domain does not accept any arguments")
	}
	return integerType{}, nil
}

func (integerType) SyntaxKind() SyntaxKind { return SyntaxAtom }

func (integerType) Decode(data []byte, pos int) (any, int, error) {
	tok, next, err := lex.Integer(data, pos)
	if err != nil {
		return nil, pos, err
	}
	n, err := strconv.ParseUint(string(tok), 10, 64)
	if err != nil {
		return nil, pos, wslerr.At(wslerr.TupleSyntax, data, pos, "failed to parse integer")
	}
	return n, next, nil
}

func (integerType) Encode(value any) ([]byte, error) {
	n, ok := value.(uint64)
	if !ok {
		return nil, wslerr.New(wslerr.Encode, "Integer value must be a uint64")
	}
	if n == 0 {
		return nil, wslerr.New(wslerr.Encode, "Integer value 0 has no valid encoding (no leading zero, and 0 itself is excluded)")
	}
	return []byte(strconv.FormatUint(n, 10)), nil
}
