// Package schema implements the compiler from declarative WSL schema text
// (DOMAIN, TABLE, KEY, REFERENCE directives) into an immutable, typed
// Schema model: domains resolved to Datatypes, tables resolved to ordered
// domain tuples, and keys/references resolved to column-index tuples.
package schema

import (
	"bytes"

	"github.com/wsl-format/wsl/datatype"
	"github.com/wsl-format/wsl/wslerr"
)

// KeyConstraint is a named uniqueness constraint: the table it applies to
// and the ordered list of column indices it projects onto.
type KeyConstraint struct {
	Table   string
	Columns []int
}

// ReferenceConstraint is a named cross-table constraint: a projection of
// the local table's columns that must appear among the foreign table's
// projection of its own columns. LocalColumns and ForeignColumns are
// aligned index-by-index by shared variable name.
type ReferenceConstraint struct {
	LocalTable     string
	LocalColumns   []int
	ForeignTable   string
	ForeignColumns []int
}

// Schema is the immutable, compiled result of Compile. Every field is
// read-only after construction; nothing in this package mutates a Schema
// once it is returned.
type Schema struct {
	Spec []byte

	Domains    map[string]bool
	Relations  map[string]bool
	Keys       map[string]bool
	References map[string]bool

	SpecOfDomain    map[string][]byte
	SpecOfRelation  map[string][]byte
	SpecOfKey       map[string][]byte
	SpecOfReference map[string][]byte

	DomainsOfRelation   map[string][]string
	DatatypeOfDomain    map[string]datatype.Datatype
	DatatypesOfRelation map[string][]datatype.Datatype

	TupleOfKey       map[string]KeyConstraint
	TupleOfReference map[string]ReferenceConstraint

	// RelationOrder and the companion order slices below preserve
	// declaration order so resolution and diagnostics are deterministic
	// even though the spec models domains/relations/keys/references as
	// sets.
	RelationOrder  []string
	DomainOrder    []string
	KeyOrder       []string
	ReferenceOrder []string
}

// Compile parses schema text and resolves it into a Schema. extra may be
// nil; when present its factories are merged over (and may override) the
// built-in registry for this compilation only.
func Compile(text []byte, extra *datatype.Registry) (*Schema, error) {
	registry := datatype.Default()
	if extra != nil {
		registry = registry.Merge(extra)
	}

	s := &Schema{
		Spec:                text,
		Domains:             map[string]bool{},
		Relations:           map[string]bool{},
		Keys:                map[string]bool{},
		References:          map[string]bool{},
		SpecOfDomain:        map[string][]byte{},
		SpecOfRelation:      map[string][]byte{},
		SpecOfKey:           map[string][]byte{},
		SpecOfReference:     map[string][]byte{},
		DomainsOfRelation:   map[string][]string{},
		DatatypeOfDomain:    map[string]datatype.Datatype{},
		DatatypesOfRelation: map[string][]datatype.Datatype{},
		TupleOfKey:          map[string]KeyConstraint{},
		TupleOfReference:    map[string]ReferenceConstraint{},
	}

	for _, raw := range bytes.Split(text, []byte("\n")) {
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}
		directive, rest := splitFirst(line)
		switch string(directive) {
		case "DOMAIN":
			name, spec := splitFirst(rest)
			if len(name) == 0 {
				return nil, wslerr.New(wslerr.SchemaSyntax, "DOMAIN declaration is missing a name")
			}
			if s.Domains[string(name)] {
				return nil, wslerr.New(wslerr.SchemaSyntax, "domain \""+string(name)+"\" already declared")
			}
			s.Domains[string(name)] = true
			s.DomainOrder = append(s.DomainOrder, string(name))
			s.SpecOfDomain[string(name)] = spec
		case "TABLE":
			name, spec := splitFirst(rest)
			if len(name) == 0 {
				return nil, wslerr.New(wslerr.SchemaSyntax, "TABLE declaration is missing a name")
			}
			if s.Relations[string(name)] {
				return nil, wslerr.New(wslerr.SchemaSyntax, "table \""+string(name)+"\" already declared")
			}
			s.Relations[string(name)] = true
			s.RelationOrder = append(s.RelationOrder, string(name))
			s.SpecOfRelation[string(name)] = spec
		case "KEY":
			name := string(rest)
			if !s.Keys[name] {
				s.Keys[name] = true
				s.KeyOrder = append(s.KeyOrder, name)
				s.SpecOfKey[name] = rest
			}
		case "REFERENCE":
			name := string(rest)
			if !s.References[name] {
				s.References[name] = true
				s.ReferenceOrder = append(s.ReferenceOrder, name)
				s.SpecOfReference[name] = rest
			}
		default:
			// Unknown directives are ignored for forward compatibility.
		}
	}

	for _, name := range s.DomainOrder {
		dt, err := compileDomain(name, s.SpecOfDomain[name], registry)
		if err != nil {
			return nil, err
		}
		s.DatatypeOfDomain[name] = dt
	}

	for _, name := range s.RelationOrder {
		s.DomainsOfRelation[name] = splitFields(s.SpecOfRelation[name])
	}

	for _, name := range s.KeyOrder {
		kc, err := compileKey(name, s.SpecOfKey[name], s.Relations, s.DomainsOfRelation)
		if err != nil {
			return nil, err
		}
		s.TupleOfKey[name] = kc
	}

	for _, name := range s.ReferenceOrder {
		rc, err := compileReference(name, s.SpecOfReference[name], s.Relations, s.DomainsOfRelation)
		if err != nil {
			return nil, err
		}
		s.TupleOfReference[name] = rc
	}

	for _, name := range s.RelationOrder {
		dts := make([]datatype.Datatype, len(s.DomainsOfRelation[name]))
		for i, dom := range s.DomainsOfRelation[name] {
			dt, ok := s.DatatypeOfDomain[dom]
			if !ok {
				return nil, wslerr.New(wslerr.SchemaReference, "table \""+name+"\" references unknown domain \""+dom+"\"")
			}
			dts[i] = dt
		}
		s.DatatypesOfRelation[name] = dts
	}

	return s, nil
}

func compileDomain(name string, spec []byte, registry *datatype.Registry) (datatype.Datatype, error) {
	dtName, args := splitFirst(spec)
	if len(dtName) == 0 {
		return nil, wslerr.New(wslerr.SchemaSyntax, "DOMAIN \""+name+"\" is missing a datatype name")
	}
	factory, ok := registry.Lookup(string(dtName))
	if !ok {
		return nil, wslerr.New(wslerr.UnknownDatatype, "datatype \""+string(dtName)+"\" is not registered, required by DOMAIN \""+name+"\"")
	}
	dt, err := factory(args)
	if err != nil {
		return nil, err
	}
	return dt, nil
}

// splitFirst splits line on its first run of spaces and tabs, returning
// the leading token and the remainder with leading whitespace trimmed off.
func splitFirst(line []byte) (first []byte, rest []byte) {
	i := 0
	for i < len(line) && !isSpace(line[i]) {
		i++
	}
	first = line[:i]
	j := i
	for j < len(line) && isSpace(line[j]) {
		j++
	}
	rest = line[j:]
	return first, rest
}

func splitFields(line []byte) []string {
	fields := bytes.Fields(line)
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}
