// Package integrity checks a materialized {relation -> tuples} database
// against its schema's declared KEY and REFERENCE constraints, reporting
// every violation found rather than failing fast.
package integrity

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wsl-format/wsl/datatype"
	"github.com/wsl-format/wsl/schema"
)

// ViolationKind distinguishes a uniqueness failure from a referential one.
type ViolationKind int

const (
	// KindUnique marks a row that duplicates an existing projection of a
	// NODUPLICATEROWS or declared KEY constraint, or of a REFERENCE's
	// foreign-side projection (the shared set is filled like a key).
	KindUnique ViolationKind = iota
	// KindReferential marks a row whose local projection has no matching
	// entry in the foreign table's projection.
	KindReferential
)

// Violation is one constraint failure found while checking a database.
type Violation struct {
	Relation   string
	Row        []any
	Rendered   string
	Constraint string
	Kind       ViolationKind
}

// noDuplicateRows is the identifying name of the implicit per-table key
// that rejects exact-duplicate rows.
const noDuplicateRows = "NODUPLICATEROWS"

type namedSet struct {
	name    string
	columns []int
	seen    map[string]bool
}

// Check validates every row of db against sch's implicit no-duplicate-row
// key, every declared KEY, and every declared REFERENCE, and returns the
// full list of violations found. Both passes run to completion: a
// violation is data, never a fatal error.
func Check(sch *schema.Schema, db map[string][]Row) []Violation {
	keysOf := map[string][]*namedSet{}
	refsOf := map[string][]*namedSet{}
	// refTargets holds, per reference name, the shared set populated by
	// the foreign side and probed by the local side.
	refTargets := map[string]*namedSet{}

	for _, relation := range sch.RelationOrder {
		arity := len(sch.DomainsOfRelation[relation])
		cols := make([]int, arity)
		for i := range cols {
			cols[i] = i
		}
		keysOf[relation] = append(keysOf[relation], &namedSet{name: noDuplicateRows, columns: cols, seen: map[string]bool{}})
	}
	for _, name := range sch.KeyOrder {
		kc := sch.TupleOfKey[name]
		keysOf[kc.Table] = append(keysOf[kc.Table], &namedSet{name: name, columns: kc.Columns, seen: map[string]bool{}})
	}
	for _, name := range sch.ReferenceOrder {
		rc := sch.TupleOfReference[name]
		shared := &namedSet{name: name, columns: rc.ForeignColumns, seen: map[string]bool{}}
		refTargets[name] = shared
		keysOf[rc.ForeignTable] = append(keysOf[rc.ForeignTable], shared)
		refsOf[rc.LocalTable] = append(refsOf[rc.LocalTable], &namedSet{name: name, columns: rc.LocalColumns, seen: shared.seen})
	}

	var violations []Violation

	for _, relation := range sch.RelationOrder {
		dts := sch.DatatypesOfRelation[relation]
		for _, row := range db[relation] {
			for _, ns := range keysOf[relation] {
				key := projectKey(row, ns.columns, dts)
				if ns.seen[key] {
					violations = append(violations, Violation{
						Relation:   relation,
						Row:        row,
						Rendered:   renderRow(relation, row, dts),
						Constraint: ns.name,
						Kind:       KindUnique,
					})
					continue
				}
				ns.seen[key] = true
			}
		}
	}

	for _, relation := range sch.RelationOrder {
		dts := sch.DatatypesOfRelation[relation]
		for _, row := range db[relation] {
			for _, ns := range refsOf[relation] {
				key := projectKey(row, ns.columns, dts)
				if !ns.seen[key] {
					violations = append(violations, Violation{
						Relation:   relation,
						Row:        row,
						Rendered:   renderRow(relation, row, dts),
						Constraint: ns.name,
						Kind:       KindReferential,
					})
				}
			}
		}
	}

	return violations
}

// Row is one decoded tuple: an ordered list of column values, as produced
// by tuplecodec.Decode.
type Row = []any

// projectKey builds a comparable composite key for a row's projection onto
// columns, by encoding each projected value with its column's datatype and
// joining the tokens with a 0x00 separator byte, which no built-in token
// grammar can contain.
func projectKey(row []any, columns []int, dts []datatype.Datatype) string {
	var b bytes.Buffer
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(0)
		}
		tok, err := dts[col].Encode(row[col])
		if err != nil {
			// A row that reached the integrity checker already passed the
			// tuple codec, so its values are guaranteed encodable; this
			// path exists only to keep projectKey total.
			b.WriteString(fmt.Sprintf("<unencodable:%v>", row[col]))
			continue
		}
		b.Write(tok)
	}
	return b.String()
}

// renderRow renders a violation's offending row the same way a tuple codec
// line would read: the relation name followed by each field's own
// datatype-encoded token, space-joined. A field that fails to encode (not
// expected for a row that already passed the tuple codec) falls back to
// Go's default formatting for that value alone.
func renderRow(relation string, row []any, dts []datatype.Datatype) string {
	var b strings.Builder
	b.WriteString(relation)
	for i, v := range row {
		b.WriteByte(' ')
		tok, err := dts[i].Encode(v)
		if err != nil {
			fmt.Fprintf(&b, "%v", v)
			continue
		}
		b.Write(tok)
	}
	return b.String()
}
