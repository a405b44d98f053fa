// Package tuplecodec decodes and encodes a single WSL body line
// ("<relation> <field1> <field2> ... <fieldN>") against a compiled
// schema.Schema.
package tuplecodec

import (
	"bytes"

	"github.com/wsl-format/wsl/datatype"
	"github.com/wsl-format/wsl/lex"
	"github.com/wsl-format/wsl/schema"
	"github.com/wsl-format/wsl/wslerr"
)

// Decode parses one newline-stripped body line into its relation name and
// ordered field values, using sch to look up the relation's column
// datatypes.
func Decode(line []byte, sch *schema.Schema) (relation string, row []any, err error) {
	relTok, pos, err := lex.Atom(line, 0)
	if err != nil {
		return "", nil, err
	}
	relation = string(relTok)
	dts, ok := sch.DatatypesOfRelation[relation]
	if !ok {
		return "", nil, wslerr.At(wslerr.TupleSyntax, line, 0, "no such table \""+relation+"\"")
	}

	row = make([]any, len(dts))
	for i, dt := range dts {
		pos, err = lex.Space(line, pos)
		if err != nil {
			return "", nil, err
		}
		var val any
		switch dt.SyntaxKind() {
		case datatype.SyntaxAtom:
			val, pos, err = dt.Decode(line, pos)
		case datatype.SyntaxString:
			var inner []byte
			inner, pos, err = lex.Bracketed(line, pos)
			if err != nil {
				break
			}
			var next int
			val, next, err = dt.Decode(inner, 0)
			if err == nil && next != len(inner) {
				err = wslerr.At(wslerr.TupleSyntax, line, pos, "datatype did not consume the full string literal")
			}
		}
		if err != nil {
			return "", nil, err
		}
		row[i] = val
	}

	if pos != len(line) {
		return "", nil, wslerr.At(wslerr.TupleSyntax, line, pos, "expected end of line")
	}
	return relation, row, nil
}

// Encode renders relation and row back into a single newline-terminated
// body line, using sch to look up the relation's column datatypes.
func Encode(relation string, row []any, sch *schema.Schema) ([]byte, error) {
	dts, ok := sch.DatatypesOfRelation[relation]
	if !ok {
		return nil, wslerr.New(wslerr.Encode, "no such table \""+relation+"\"")
	}
	if len(row) != len(dts) {
		return nil, wslerr.New(wslerr.Encode, "row arity does not match table \""+relation+"\"")
	}

	var b bytes.Buffer
	b.WriteString(relation)
	for i, dt := range dts {
		b.WriteByte(' ')
		tok, err := dt.Encode(row[i])
		if err != nil {
			return nil, err
		}
		switch dt.SyntaxKind() {
		case datatype.SyntaxString:
			b.WriteByte('[')
			b.Write(tok)
			b.WriteByte(']')
		default:
			b.Write(tok)
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
