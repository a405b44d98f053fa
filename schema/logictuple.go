package schema

import (
	"bytes"
	"sort"

	"github.com/wsl-format/wsl/wslerr"
)

// logicTuple is "<relation> <var>*" where each var is either "*" or an
// identifier beginning with a letter.
type logicTuple struct {
	relation string
	vars     []string
}

func parseLogicTuple(text []byte) logicTuple {
	fields := bytes.Fields(text)
	lt := logicTuple{}
	if len(fields) == 0 {
		return lt
	}
	lt.relation = string(fields[0])
	lt.vars = make([]string, len(fields)-1)
	for i, f := range fields[1:] {
		lt.vars[i] = string(f)
	}
	return lt
}

func isWildcard(v string) bool { return v == "*" }

func isIdent(v string) bool {
	if len(v) == 0 {
		return false
	}
	c := v[0]
	if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return false
	}
	for i := 1; i < len(v); i++ {
		c = v[i]
		alnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !alnum {
			return false
		}
	}
	return true
}

// compileKey validates a KEY declaration's logic tuple and resolves it to a
// KeyConstraint: the named table plus the left-to-right positions of its
// non-wildcard variables.
func compileKey(name string, spec []byte, relations map[string]bool, domainsOfRelation map[string][]string) (KeyConstraint, error) {
	lt := parseLogicTuple(spec)
	if !relations[lt.relation] {
		return KeyConstraint{}, wslerr.New(wslerr.SchemaReference, "no such table \""+lt.relation+"\" while parsing KEY constraint \""+name+"\"")
	}
	if len(lt.vars) != len(domainsOfRelation[lt.relation]) {
		return KeyConstraint{}, wslerr.New(wslerr.SchemaReference, "arity mismatch for table \""+lt.relation+"\" while parsing KEY constraint \""+name+"\"")
	}
	seen := map[string]bool{}
	var columns []int
	for i, v := range lt.vars {
		if isWildcard(v) {
			continue
		}
		if !isIdent(v) {
			return KeyConstraint{}, wslerr.New(wslerr.SchemaSyntax, "invalid variable \""+v+"\" while parsing KEY constraint \""+name+"\"")
		}
		if seen[v] {
			return KeyConstraint{}, wslerr.New(wslerr.SchemaReference, "variable \""+v+"\" used twice while parsing KEY constraint \""+name+"\"")
		}
		seen[v] = true
		columns = append(columns, i)
	}
	return KeyConstraint{Table: lt.relation, Columns: columns}, nil
}

// compileReference validates a REFERENCE declaration's two logic tuples and
// resolves it to a ReferenceConstraint whose left/right column index lists
// are aligned position-by-position by shared variable name.
func compileReference(name string, spec []byte, relations map[string]bool, domainsOfRelation map[string][]string) (ReferenceConstraint, error) {
	parts := bytes.SplitN(spec, []byte("=>"), 2)
	if len(parts) != 2 {
		return ReferenceConstraint{}, wslerr.New(wslerr.SchemaSyntax, "could not parse \""+name+"\" as a REFERENCE constraint, expected '=>'")
	}
	localLT := parseLogicTuple(bytes.TrimSpace(parts[0]))
	foreignLT := parseLogicTuple(bytes.TrimSpace(parts[1]))

	localIx, err := sideVarPositions(name, localLT, relations, domainsOfRelation)
	if err != nil {
		return ReferenceConstraint{}, err
	}
	foreignIx, err := sideVarPositions(name, foreignLT, relations, domainsOfRelation)
	if err != nil {
		return ReferenceConstraint{}, err
	}

	localVars := sortedKeys(localIx)
	foreignVars := sortedKeys(foreignIx)
	if !sameStrings(localVars, foreignVars) {
		return ReferenceConstraint{}, wslerr.New(wslerr.SchemaReference, "different variables used on both sides of \"=>\" while parsing REFERENCE constraint \""+name+"\"")
	}

	localColumns := make([]int, len(localVars))
	foreignColumns := make([]int, len(localVars))
	for i, v := range localVars {
		localColumns[i] = localIx[v]
		foreignColumns[i] = foreignIx[v]
	}

	return ReferenceConstraint{
		LocalTable:     localLT.relation,
		LocalColumns:   localColumns,
		ForeignTable:   foreignLT.relation,
		ForeignColumns: foreignColumns,
	}, nil
}

func sideVarPositions(name string, lt logicTuple, relations map[string]bool, domainsOfRelation map[string][]string) (map[string]int, error) {
	if !relations[lt.relation] {
		return nil, wslerr.New(wslerr.SchemaReference, "no such table \""+lt.relation+"\" while parsing REFERENCE constraint \""+name+"\"")
	}
	if len(lt.vars) != len(domainsOfRelation[lt.relation]) {
		return nil, wslerr.New(wslerr.SchemaReference, "arity mismatch for table \""+lt.relation+"\" while parsing REFERENCE constraint \""+name+"\"")
	}
	ix := map[string]int{}
	for i, v := range lt.vars {
		if isWildcard(v) {
			continue
		}
		if !isIdent(v) {
			return nil, wslerr.New(wslerr.SchemaSyntax, "invalid variable \""+v+"\" while parsing REFERENCE constraint \""+name+"\"")
		}
		if _, dup := ix[v]; dup {
			return nil, wslerr.New(wslerr.SchemaReference, "variable \""+v+"\" used twice on the same side while parsing REFERENCE constraint \""+name+"\"")
		}
		ix[v] = i
	}
	return ix, nil
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
