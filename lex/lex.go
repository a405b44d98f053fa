// Package lex implements the byte-level lexers shared by the schema
// compiler and the tuple codec: atoms, bracketed strings, the single-space
// field separator, and unsigned decimal integers. Every lexer operates on a
// (line, pos) pair and returns the next cursor position or a *wslerr.Error
// carrying the byte offset of the failure.
package lex

import "github.com/wsl-format/wsl/wslerr"

// Atom consumes the maximal run of bytes b with b > 0x20 and b != 0x7f,
// starting at pos. It fails if that run is empty.
func Atom(line []byte, pos int) (tok []byte, next int, err error) {
	end := len(line)
	i := pos
	for i < end && line[i] > 0x20 && line[i] != 0x7f {
		i++
	}
	if i == pos {
		return nil, pos, wslerr.At(wslerr.TupleSyntax, line, pos, "expected atom")
	}
	return line[pos:i], i, nil
}

// Bracketed requires '[' at pos, consumes bytes up to the matching ']', and
// returns the inner bytes verbatim (no escape processing). It fails on an
// unterminated bracket.
func Bracketed(line []byte, pos int) (inner []byte, next int, err error) {
	end := len(line)
	if pos >= end || line[pos] != '[' {
		return nil, pos, wslerr.At(wslerr.TupleSyntax, line, pos, "expected '['")
	}
	i := pos + 1
	for i < end {
		if line[i] == ']' {
			return line[pos+1 : i], i + 1, nil
		}
		i++
	}
	return nil, pos, wslerr.At(wslerr.TupleSyntax, line, pos, "unterminated string literal, expected ']'")
}

// Space consumes exactly one 0x20 byte.
func Space(line []byte, pos int) (next int, err error) {
	if pos >= len(line) || line[pos] != 0x20 {
		return pos, wslerr.At(wslerr.TupleSyntax, line, pos, "expected space")
	}
	return pos + 1, nil
}

// Integer consumes one digit in 0x31..0x39, then any run of digits in
// 0x30..0x39. A leading '0' is rejected by construction: the sole digit
// '0' never starts a valid run, so the bare value 0 is unrepresentable.
func Integer(line []byte, pos int) (tok []byte, next int, err error) {
	end := len(line)
	if pos >= end || line[pos] < '1' || line[pos] > '9' {
		return nil, pos, wslerr.At(wslerr.TupleSyntax, line, pos, "expected nonzero leading digit")
	}
	i := pos + 1
	for i < end && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return line[pos:i], i, nil
}
