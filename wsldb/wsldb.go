// Package wsldb ties the schema compiler and tuple codec together into the
// database round-trip driver: reading a WSL byte stream (with an optional
// inline "% "-prefixed schema header) into a typed in-memory Database, and
// serializing such a Database back out with stable, deterministic ordering.
// It does not run integrity checks; those are a separate integrity.Check
// call on the Database's Schema and Tables.
package wsldb

import (
	"bytes"
	"sort"

	"github.com/wsl-format/wsl/datatype"
	"github.com/wsl-format/wsl/schema"
	"github.com/wsl-format/wsl/tuplecodec"
)

// Row is one decoded tuple: an ordered list of column values.
type Row = []any

// Database is a schema plus a materialized {relation -> tuples} mapping.
// Insertion order within a relation's slice is not semantically
// significant; Write defines the order tuples are serialized in.
type Database struct {
	Schema *schema.Schema
	Tables map[string][]Row
}

// ReadOptions configures Read. Registry, if non-nil, augments the built-in
// datatype registry for compiling an inline or externally-supplied schema.
// ExternalSchema, if non-nil, is used as-is and no inline header is read
// from src; Registry is ignored in that case, since the schema is already
// compiled.
type ReadOptions struct {
	Registry       *datatype.Registry
	ExternalSchema *schema.Schema
}

// Read consumes src to end-of-input, compiling an inline schema header
// (unless ExternalSchema is supplied) and decoding every remaining
// non-blank line as a tuple.
func Read(src LineSource, opts ReadOptions) (*Database, error) {
	pb := newPushback(src)

	sch := opts.ExternalSchema
	if sch == nil {
		header := splitHeader(pb)
		compiled, err := schema.Compile(header, opts.Registry)
		if err != nil {
			return nil, err
		}
		sch = compiled
	}

	tables := make(map[string][]Row, len(sch.RelationOrder))
	for _, rel := range sch.RelationOrder {
		tables[rel] = nil
	}

	for {
		line, ok := pb.Next()
		if !ok {
			break
		}
		trimmed := bytes.TrimRight(line, "\r\n")
		trimmed = bytes.TrimSpace(trimmed)
		if len(trimmed) == 0 {
			continue
		}
		relation, row, err := tuplecodec.Decode(trimmed, sch)
		if err != nil {
			return nil, err
		}
		tables[relation] = append(tables[relation], row)
	}

	return &Database{Schema: sch, Tables: tables}, nil
}

// splitHeader consumes contiguous leading non-blank lines beginning with
// '%', stripping the "% " marker, and reassembles them newline-joined as
// schema text. The first non-blank line that is not a schema line is
// pushed back so Read's body loop sees it.
func splitHeader(pb *pushback) []byte {
	var schemaLines [][]byte
	for {
		line, ok := pb.Next()
		if !ok {
			break
		}
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}
		if !bytes.HasPrefix(trimmed, []byte("%")) {
			pb.unget(line)
			break
		}
		schemaLines = append(schemaLines, stripMarker(trimmed))
	}
	return bytes.Join(schemaLines, []byte("\n"))
}

func stripMarker(line []byte) []byte {
	if bytes.HasPrefix(line, []byte("% ")) {
		return line[2:]
	}
	return bytes.TrimPrefix(line, []byte("%"))
}

// WriteOptions configures Write.
type WriteOptions struct {
	// InlineSchema, when true, prepends the schema's original spec text
	// as a "% "-prefixed header before the body.
	InlineSchema bool
}

// Write serializes db: relations in lexicographic order of their names,
// tuples within a relation in lexicographic order of their encoded line
// bytes (a stable total order, so output is deterministic run to run).
func (db *Database) Write(opts WriteOptions) ([]byte, error) {
	var out bytes.Buffer

	if opts.InlineSchema {
		for _, line := range bytes.Split(db.Schema.Spec, []byte("\n")) {
			out.WriteString("% ")
			out.Write(line)
			out.WriteByte('\n')
		}
	}

	relations := make([]string, 0, len(db.Tables))
	for rel := range db.Tables {
		relations = append(relations, rel)
	}
	sort.Strings(relations)

	for _, rel := range relations {
		rows := db.Tables[rel]
		encoded := make([][]byte, len(rows))
		for i, row := range rows {
			enc, err := tuplecodec.Encode(rel, row, db.Schema)
			if err != nil {
				return nil, err
			}
			encoded[i] = enc
		}
		sort.Slice(encoded, func(i, j int) bool {
			return bytes.Compare(encoded[i], encoded[j]) < 0
		})
		for _, line := range encoded {
			out.Write(line)
		}
	}

	return out.Bytes(), nil
}
