package datatype

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/wsl-format/wsl/lex"
	"github.com/wsl-format/wsl/wslerr"
)

type ipv4Type struct{}

func newIPv4(args []byte) (Datatype, error) {
	if len(bytes.TrimSpace(args)) != 0 {
		return nil, wslerr.New(wslerr.DatatypeArg, "construction of IPv4 domain does not accept any arguments")
	}
	return ipv4Type{}, nil
}

func (ipv4Type) SyntaxKind() SyntaxKind { return SyntaxAtom }

func (ipv4Type) Decode(data []byte, pos int) (any, int, error) {
	tok, next, err := lex.Atom(data, pos)
	if err != nil {
		return nil, pos, err
	}
	octets, ok := parseIPv4(tok)
	if !ok {
		return nil, pos, wslerr.At(wslerr.TupleSyntax, data, pos, "IPv4 address must be a 4-tuple of octets in 0..255")
	}
	return octets, next, nil
}

func (ipv4Type) Encode(value any) ([]byte, error) {
	ip, ok := value.([4]byte)
	if !ok {
		return nil, wslerr.New(wslerr.Encode, "IPv4 value must be a [4]byte")
	}
	return []byte(fmt.Sprintf("%d.%d.%d.%d", ip[0], ip[1], ip[2], ip[3])), nil
}

func parseIPv4(tok []byte) ([4]byte, bool) {
	var out [4]byte
	parts := bytes.Split(tok, []byte("."))
	if len(parts) != 4 {
		return out, false
	}
	for i, p := range parts {
		if len(p) == 0 {
			return out, false
		}
		n, err := strconv.Atoi(string(p))
		if err != nil || n < 0 || n > 255 {
			return out, false
		}
		out[i] = byte(n)
	}
	return out, true
}
